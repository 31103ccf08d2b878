package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies an outage-related event.
type EventType string

const (
	EventReboot        EventType = "reboot"
	EventReconnection  EventType = "reconnection"
	EventDisconnection EventType = "disconnection"
	// EventOutage exists in the legacy event shape but is never emitted.
	EventOutage EventType = "outage"
)

// Event is an immutable entry in the outage event log. ClientID and Hostname
// are denormalized so events render without a registry lookup.
type Event struct {
	ID              string    `json:"id"`
	Type            EventType `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	DurationSeconds int64     `json:"duration,omitempty"`
	ClientID        string    `json:"client_id"`
	Hostname        string    `json:"hostname,omitempty"`
	Details         string    `json:"details"`
}

// NewEvent creates an event about the given client record. Ids are random
// rather than timestamp-derived so rapid writes cannot collide.
func NewEvent(t EventType, rec ClientRecord, now time.Time, details string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: now,
		ClientID:  rec.ClientID,
		Hostname:  rec.Hostname,
		Details:   details,
	}
}
