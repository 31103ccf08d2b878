package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	api "lighthouse-v0/internal/api/application"
	"lighthouse-v0/internal/shared/validation"
)

// HeartbeatHandler handles heartbeat ingestion
type HeartbeatHandler struct {
	service *api.TrackerService
}

// NewHeartbeatHandler creates a new heartbeat handler
func NewHeartbeatHandler(service *api.TrackerService) *HeartbeatHandler {
	return &HeartbeatHandler{
		service: service,
	}
}

// SubmitHeartbeat handles POST /api/v1/heartbeat
// @Summary      Submit a heartbeat
// @Description  Record a liveness report from a client; may emit reboot/reconnection events
// @Tags         heartbeats
// @Accept       json
// @Produce      json
// @Param        report  body      application.HeartbeatRequest  true  "Heartbeat report"
// @Success      200     {object}  application.HeartbeatResponse
// @Failure      400     {object}  application.ErrorResponse
// @Failure      500     {object}  application.ErrorResponse
// @Router       /heartbeat [post]
func (h *HeartbeatHandler) SubmitHeartbeat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	logger := getLogger(r)

	var req api.HeartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	resp, err := h.service.SubmitHeartbeat(r.Context(), req)
	if err != nil {
		if errors.Is(err, &validation.ValidationError{}) {
			respondJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("Failed to handle heartbeat", "client_id", req.ClientID, "err", err)
		respondJSONError(w, http.StatusInternalServerError, "Failed to handle heartbeat: "+err.Error())
		return
	}

	logger.Debug("Heartbeat accepted", "client_id", req.ClientID, "is_reboot", resp.IsReboot)
	respondJSON(w, http.StatusOK, resp)
}
