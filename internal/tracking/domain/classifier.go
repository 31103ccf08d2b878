package domain

import (
	"fmt"
	"time"
)

// Classification is the outcome of applying one heartbeat to a client record.
type Classification struct {
	Record   ClientRecord
	Events   []Event
	Rebooted bool
}

// Classify applies a heartbeat report to the existing record (nil when the
// client has never been seen) and decides which events to emit. It is pure:
// every state change happens through the returned record.
//
// Rules, in order: first contact creates a connected record and never emits;
// a changed boot time on a non-first-run report emits a reboot; a heartbeat
// from a disconnected client emits a reconnection carrying the downtime.
// Reboot and reconnection are independent and can both fire on one report.
func Classify(existing *ClientRecord, report HeartbeatReport, now time.Time) Classification {
	if existing == nil {
		rec := ClientRecord{
			ClientID:        report.ClientID,
			Hostname:        report.Hostname,
			Status:          StatusConnected,
			LastSeen:        now,
			BootTime:        report.BootTime,
			TotalHeartbeats: 1,
		}
		if rec.BootTime.IsZero() {
			rec.BootTime = now
		}
		return Classification{Record: rec}
	}

	rec := *existing

	// An absent boot time is unknown, never compared. IsFirstRun suppresses
	// the comparison against a stale stored value after a registry reset.
	rebooted := !report.BootTime.IsZero() &&
		!report.BootTime.Equal(rec.BootTime) &&
		!report.IsFirstRun

	reconnected := rec.Status == StatusDisconnected
	var downtime int64
	if reconnected {
		downtime = int64(now.Sub(rec.LastSeen).Seconds())
	}

	rec.Status = StatusConnected
	rec.LastSeen = now
	if report.BootTime.IsZero() {
		rec.BootTime = now
	} else {
		rec.BootTime = report.BootTime
	}
	rec.TotalHeartbeats++
	if report.Hostname != "" {
		rec.Hostname = report.Hostname
	}

	var events []Event
	if rebooted {
		events = append(events, NewEvent(EventReboot, rec, now,
			fmt.Sprintf("%s rebooted", rec.DisplayName())))
	}
	if reconnected {
		ev := NewEvent(EventReconnection, rec, now,
			fmt.Sprintf("%s reconnected after %ds offline", rec.DisplayName(), downtime))
		ev.DurationSeconds = downtime
		events = append(events, ev)
	}

	return Classification{Record: rec, Events: events, Rebooted: rebooted}
}

// ClassifyTimeout demotes a connected record whose last heartbeat is older
// than the liveness timeout. A record that is already disconnected is never
// demoted again, so successive sweeps emit at most one disconnection per
// idle period. The bool reports whether a transition happened.
func ClassifyTimeout(existing ClientRecord, timeout time.Duration, now time.Time) (ClientRecord, Event, bool) {
	if existing.Status != StatusConnected {
		return existing, Event{}, false
	}
	if now.Sub(existing.LastSeen) <= timeout {
		return existing, Event{}, false
	}

	rec := existing
	rec.Status = StatusDisconnected
	ev := NewEvent(EventDisconnection, rec, now,
		fmt.Sprintf("%s stopped sending heartbeats", rec.DisplayName()))

	return rec, ev, true
}
