package domain

import (
	"context"
	"time"
)

// HeartbeatReport is one inbound liveness report from a client. A zero
// BootTime means the client did not report one.
type HeartbeatReport struct {
	ClientID   string    `json:"client_id"`
	Timestamp  time.Time `json:"timestamp"`
	BootTime   time.Time `json:"boot_time"`
	IsReboot   bool      `json:"is_reboot"`
	IsFirstRun bool      `json:"is_first_run"`
	Hostname   string    `json:"hostname"`
}

func (r *HeartbeatReport) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 1)

	if len(r.ClientID) == 0 {
		problems["client_id"] = "'client_id' is required"
	}

	return problems
}
