package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	api "lighthouse-v0/internal/api/application"
)

// getLogger extracts a request-scoped logger from the context, falling back
// to slog.Default().
func getLogger(r *http.Request) *slog.Logger {
	if l, ok := r.Context().Value("logger").(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// respondJSON writes data as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondJSONError writes a JSON error body with the given status.
func respondJSONError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, api.ErrorResponse{Error: message})
}
