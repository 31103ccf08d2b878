package handlers

import (
	"net/http"
	"strconv"
	"time"

	api "lighthouse-v0/internal/api/application"
)

const defaultLivenessTimeout = 5 * time.Minute

// StatusHandler handles status and liveness queries
type StatusHandler struct {
	service *api.TrackerService
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(service *api.TrackerService) *StatusHandler {
	return &StatusHandler{
		service: service,
	}
}

// GetStatus handles GET /api/v1/status
// @Summary      Get tracker status
// @Description  Get the recent outage events and all known client records
// @Tags         status
// @Produce      json
// @Param        limit  query     int  false  "Limit events returned (default all retained)"
// @Success      200    {object}  application.StatusResponse
// @Security     ApiKeyAuth
// @Router       /status [get]
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	resp := h.service.GetStatus(r.Context(), limit)

	getLogger(r).Debug("Status served", "events", len(resp.Events), "clients", len(resp.Clients))
	respondJSON(w, http.StatusOK, resp)
}

// GetLivenessReport handles GET /api/v1/liveness
// @Summary      Get a liveness report
// @Description  Classify every client against a timeout in minutes
// @Tags         status
// @Produce      json
// @Param        timeout_minutes  query     int  false  "Liveness timeout in minutes (default 5)"
// @Success      200              {object}  application.LivenessResponse
// @Security     ApiKeyAuth
// @Router       /liveness [get]
func (h *StatusHandler) GetLivenessReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	timeout := defaultLivenessTimeout
	if minutesStr := r.URL.Query().Get("timeout_minutes"); minutesStr != "" {
		if minutes, err := strconv.Atoi(minutesStr); err == nil && minutes > 0 {
			timeout = time.Duration(minutes) * time.Minute
		}
	}

	resp := h.service.GetLivenessReport(r.Context(), timeout)

	getLogger(r).Debug("Liveness report served", "clients", resp.Summary.Total, "timeout", timeout)
	respondJSON(w, http.StatusOK, resp)
}
