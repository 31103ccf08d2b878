package application

import (
	"time"

	trackingapp "lighthouse-v0/internal/tracking/application"
	trackingdomain "lighthouse-v0/internal/tracking/domain"
)

// HeartbeatRequest mirrors the wire payload of POST /heartbeat. Optional
// times are pointers so an absent field is distinguishable from a zero one.
type HeartbeatRequest struct {
	ClientID   string     `json:"client_id"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	BootTime   *time.Time `json:"boot_time,omitempty"`
	IsReboot   bool       `json:"is_reboot,omitempty"`
	IsFirstRun bool       `json:"is_first_run,omitempty"`
	Hostname   string     `json:"hostname,omitempty"`
}

// HeartbeatResponse acknowledges a heartbeat. IsReboot reports whether a
// reboot event was emitted for this heartbeat.
type HeartbeatResponse struct {
	Status   string `json:"status"`
	IsReboot bool   `json:"is_reboot"`
}

// EventResponse represents one outage event in API responses.
type EventResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	DurationSeconds int64     `json:"duration,omitempty"`
	ClientID        string    `json:"client_id"`
	Hostname        string    `json:"hostname,omitempty"`
	Details         string    `json:"details"`
}

// ClientResponse represents one client record in API responses.
type ClientResponse struct {
	ClientID        string    `json:"client_id"`
	Hostname        string    `json:"hostname,omitempty"`
	Status          string    `json:"status"`
	LastSeen        time.Time `json:"last_seen"`
	BootTime        time.Time `json:"boot_time"`
	TotalHeartbeats int64     `json:"total_heartbeats"`
}

// StatusResponse is the combined event log and registry view.
type StatusResponse struct {
	Events  []EventResponse           `json:"events"`
	Clients map[string]ClientResponse `json:"clients"`
}

// ClientLivenessResponse is one row of a liveness report.
type ClientLivenessResponse struct {
	ClientID         string `json:"client_id"`
	Hostname         string `json:"hostname,omitempty"`
	MinutesSinceLast int64  `json:"minutes_since_last"`
	Status           string `json:"status"`
}

// LivenessSummaryResponse aggregates a liveness report.
type LivenessSummaryResponse struct {
	Total        int `json:"total"`
	Connected    int `json:"connected"`
	Disconnected int `json:"disconnected"`
}

// LivenessResponse classifies all clients against a caller-supplied timeout.
type LivenessResponse struct {
	Clients []ClientLivenessResponse `json:"clients"`
	Summary LivenessSummaryResponse  `json:"summary"`
}

// CleanupRequest asks for removal of records idle longer than the cutoff.
type CleanupRequest struct {
	OlderThanHours int `json:"older_than_hours"`
}

// CleanupResponse reports how many records a cleanup removed.
type CleanupResponse struct {
	RemovedCount int `json:"removed_count"`
}

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToEventResponse converts a domain event to an API response
func ToEventResponse(ev trackingdomain.Event) EventResponse {
	return EventResponse{
		ID:              ev.ID,
		Type:            string(ev.Type),
		Timestamp:       ev.Timestamp,
		DurationSeconds: ev.DurationSeconds,
		ClientID:        ev.ClientID,
		Hostname:        ev.Hostname,
		Details:         ev.Details,
	}
}

// ToClientResponse converts a client record to an API response
func ToClientResponse(rec trackingdomain.ClientRecord) ClientResponse {
	return ClientResponse{
		ClientID:        rec.ClientID,
		Hostname:        rec.Hostname,
		Status:          string(rec.Status),
		LastSeen:        rec.LastSeen,
		BootTime:        rec.BootTime,
		TotalHeartbeats: rec.TotalHeartbeats,
	}
}

// ToLivenessResponse converts a liveness report to an API response
func ToLivenessResponse(report trackingapp.LivenessReport) LivenessResponse {
	resp := LivenessResponse{
		Clients: make([]ClientLivenessResponse, len(report.Clients)),
		Summary: LivenessSummaryResponse{
			Total:        report.Summary.Total,
			Connected:    report.Summary.Connected,
			Disconnected: report.Summary.Disconnected,
		},
	}
	for i, c := range report.Clients {
		resp.Clients[i] = ClientLivenessResponse{
			ClientID:         c.ClientID,
			Hostname:         c.Hostname,
			MinutesSinceLast: c.MinutesSinceLast,
			Status:           string(c.Status),
		}
	}
	return resp
}
