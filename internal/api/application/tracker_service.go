package application

import (
	"context"
	"time"

	trackingapp "lighthouse-v0/internal/tracking/application"
	trackingdomain "lighthouse-v0/internal/tracking/domain"
)

// TrackerService adapts the liveness tracking engine to transport DTOs.
type TrackerService struct {
	tracker *trackingapp.Tracker
}

// NewTrackerService creates a new tracker service
func NewTrackerService(tracker *trackingapp.Tracker) *TrackerService {
	return &TrackerService{tracker: tracker}
}

// SubmitHeartbeat applies one heartbeat report.
func (s *TrackerService) SubmitHeartbeat(ctx context.Context, req HeartbeatRequest) (HeartbeatResponse, error) {
	report := trackingdomain.HeartbeatReport{
		ClientID:   req.ClientID,
		IsReboot:   req.IsReboot,
		IsFirstRun: req.IsFirstRun,
		Hostname:   req.Hostname,
	}
	if req.Timestamp != nil {
		report.Timestamp = *req.Timestamp
	}
	if req.BootTime != nil {
		report.BootTime = *req.BootTime
	}

	res, err := s.tracker.SubmitHeartbeat(ctx, report)
	if err != nil {
		return HeartbeatResponse{}, err
	}
	return HeartbeatResponse{Status: res.Status, IsReboot: res.IsReboot}, nil
}

// GetStatus returns the retained event log (most recent limit entries,
// newest first; limit <= 0 means all) and every known client record.
func (s *TrackerService) GetStatus(ctx context.Context, limit int) StatusResponse {
	events := s.tracker.RecentEvents(limit)
	clients := s.tracker.Clients()

	resp := StatusResponse{
		Events:  make([]EventResponse, len(events)),
		Clients: make(map[string]ClientResponse, len(clients)),
	}
	for i, ev := range events {
		resp.Events[i] = ToEventResponse(ev)
	}
	for id, rec := range clients {
		resp.Clients[id] = ToClientResponse(rec)
	}
	return resp
}

// GetLivenessReport classifies every client against the given timeout.
func (s *TrackerService) GetLivenessReport(ctx context.Context, timeout time.Duration) LivenessResponse {
	return ToLivenessResponse(s.tracker.LivenessReport(timeout))
}

// Cleanup removes client records idle longer than the cutoff. Storage
// failures propagate so the caller never sees a false success count.
func (s *TrackerService) Cleanup(ctx context.Context, req CleanupRequest) (CleanupResponse, error) {
	removed, err := s.tracker.Cleanup(ctx, time.Duration(req.OlderThanHours)*time.Hour)
	if err != nil {
		return CleanupResponse{RemovedCount: removed}, err
	}
	return CleanupResponse{RemovedCount: removed}, nil
}
