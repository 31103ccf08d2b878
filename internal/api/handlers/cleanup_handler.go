package handlers

import (
	"encoding/json"
	"net/http"

	api "lighthouse-v0/internal/api/application"
)

// CleanupHandler handles administrative retention sweeps
type CleanupHandler struct {
	service *api.TrackerService
}

// NewCleanupHandler creates a new cleanup handler
func NewCleanupHandler(service *api.TrackerService) *CleanupHandler {
	return &CleanupHandler{
		service: service,
	}
}

// Cleanup handles POST /api/v1/cleanup
// @Summary      Remove idle client records
// @Description  Delete client records whose last heartbeat predates the cutoff; events are kept
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      application.CleanupRequest  true  "Retention cutoff"
// @Success      200      {object}  application.CleanupResponse
// @Failure      400      {object}  application.ErrorResponse
// @Failure      500      {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /cleanup [post]
func (h *CleanupHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	logger := getLogger(r)

	var req api.CleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if req.OlderThanHours <= 0 {
		respondJSONError(w, http.StatusBadRequest, "'older_than_hours' must be positive")
		return
	}

	resp, err := h.service.Cleanup(r.Context(), req)
	if err != nil {
		// Never report a false success count when the backend failed.
		logger.Error("Cleanup failed", "older_than_hours", req.OlderThanHours, "removed", resp.RemovedCount, "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Cleanup failed: "+err.Error())
		return
	}

	logger.Info("Cleanup completed", "older_than_hours", req.OlderThanHours, "removed", resp.RemovedCount)
	respondJSON(w, http.StatusOK, resp)
}
