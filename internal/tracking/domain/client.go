package domain

import "time"

// Status is the connectivity state of a tracked client.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// ClientRecord is the last-known liveness record for one client. ClientID is
// the stable identity; Hostname is a display label only.
type ClientRecord struct {
	ClientID        string    `json:"client_id"`
	Hostname        string    `json:"hostname,omitempty"`
	Status          Status    `json:"status"`
	LastSeen        time.Time `json:"last_seen"`
	BootTime        time.Time `json:"boot_time"`
	TotalHeartbeats int64     `json:"total_heartbeats"`
}

// DisplayName returns the hostname when one was reported, else the client id.
func (c ClientRecord) DisplayName() string {
	if c.Hostname != "" {
		return c.Hostname
	}
	return c.ClientID
}
