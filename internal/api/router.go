package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/zhongcheng0519/openstock/internal/api/handlers"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(strategyHandler *handlers.StrategyHandler, healthHandler *handlers.HealthHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health checks
	r.HandleFunc("/health", healthHandler.Live).Methods("GET")
	r.HandleFunc("/health/db", healthHandler.Database).Methods("GET")

	// Strategy endpoints
	api := r.PathPrefix("/api/v1/strategy").Subrouter()
	api.HandleFunc("/mf-filter", strategyHandler.MfFilter).Methods("POST")
	api.HandleFunc("/pct-filter", strategyHandler.PctFilter).Methods("POST")
	api.HandleFunc("/sync-stocks", strategyHandler.SyncStocks).Methods("POST")
	api.HandleFunc("/sync-daily/{trade_date}", strategyHandler.SyncDaily).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
