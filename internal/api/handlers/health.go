package handlers

import (
	"net/http"

	"github.com/zhongcheng0519/openstock/pkg/database"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

// HealthHandler serves liveness and database health endpoints.
type HealthHandler struct {
	db     *database.DB
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *database.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: log}
}

// Live reports process liveness.
// GET /health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "openstock-api",
	})
}

// Database reports database connectivity and pool statistics.
// GET /health/db
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	status, err := h.db.HealthCheck(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Database health check failed")
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}

	respondJSON(w, http.StatusOK, status)
}
