package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zhongcheng0519/openstock/internal/market"
	"github.com/zhongcheng0519/openstock/internal/materialize"
	"github.com/zhongcheng0519/openstock/internal/provider"
	"github.com/zhongcheng0519/openstock/internal/screen"
)

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps engine errors onto HTTP status codes. Validation is
// the caller's fault, a missing upstream day is not found, upstream
// failures are a bad gateway, anything else is internal.
func statusForError(err error) int {
	var validationErr *market.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	var notMaterialized *screen.NotMaterializedError
	if errors.As(err, &notMaterialized) {
		return http.StatusConflict
	}

	if errors.Is(err, provider.ErrEmptyBatch) {
		return http.StatusNotFound
	}

	var fetchErr *materialize.FetchError
	if errors.As(err, &fetchErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
