package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	sharedlogger "lighthouse-v0/internal/shared/logger"
	"lighthouse-v0/internal/shared/validation"
	"lighthouse-v0/internal/tracking/domain"
	"lighthouse-v0/pkg/utils"
)

// TrackerConfig tunes the liveness engine.
type TrackerConfig struct {
	// LivenessTimeout is the maximum gap since the last heartbeat before a
	// connected client is demoted by the sweep.
	LivenessTimeout time.Duration
	// MaxEvents bounds the retained event log; oldest entries are evicted.
	MaxEvents int
	// WriteTimeout bounds each backend write issued on the heartbeat path.
	WriteTimeout time.Duration
}

func (c *TrackerConfig) applyDefaults() {
	if c.LivenessTimeout <= 0 {
		c.LivenessTimeout = 5 * time.Minute
	}
	if c.MaxEvents <= 0 {
		c.MaxEvents = 1000
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
}

// HeartbeatResult is the outcome reported to a heartbeat sender.
type HeartbeatResult struct {
	Status   string
	IsReboot bool
}

// ClientLiveness is one row of a liveness report.
type ClientLiveness struct {
	ClientID         string
	Hostname         string
	MinutesSinceLast int64
	Status           domain.Status
}

// LivenessSummary aggregates a liveness report.
type LivenessSummary struct {
	Total        int
	Connected    int
	Disconnected int
}

// LivenessReport classifies every known client against a caller-supplied
// timeout, independent of the stored status (which can go stale between
// sweeps).
type LivenessReport struct {
	Clients []ClientLiveness
	Summary LivenessSummary
}

// Tracker owns the in-memory client registry and the bounded event log, and
// drives the classifier for both heartbeats and sweep demotions. State is
// instance-owned so tests can run isolated trackers.
//
// The in-memory state is authoritative: backend writes on the heartbeat path
// are best-effort and failures are logged, never surfaced to the sender.
type Tracker struct {
	logger sharedlogger.Logger
	store  domain.Store
	cfg    TrackerConfig

	// keys serializes the read-decide-write sequence per client id so two
	// concurrent heartbeats from the same client cannot classify against
	// the same stale snapshot.
	keys *utils.KeyMutex

	now func() time.Time

	mu      sync.RWMutex
	clients map[string]domain.ClientRecord
	events  []domain.Event // newest first
}

// NewTracker creates a tracker over the given store.
func NewTracker(logger sharedlogger.Logger, store domain.Store, cfg TrackerConfig) *Tracker {
	cfg.applyDefaults()
	return &Tracker{
		logger:  logger,
		store:   store,
		cfg:     cfg,
		keys:    utils.NewKeyMutex(),
		now:     time.Now,
		clients: make(map[string]domain.ClientRecord),
	}
}

// Load hydrates in-memory state from the backend. A backend that cannot be
// read at all fails startup; snapshot corruption is handled inside the file
// backend and surfaces here as empty state.
func (t *Tracker) Load(ctx context.Context) error {
	clients, events, err := t.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if clients != nil {
		t.clients = clients
	}

	// The store returns events oldest first; memory keeps newest first.
	t.events = make([]domain.Event, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		t.events = append(t.events, events[i])
	}
	if len(t.events) > t.cfg.MaxEvents {
		t.events = t.events[:t.cfg.MaxEvents]
	}

	t.logger.Info("State loaded", "clients", len(t.clients), "events", len(t.events))
	return nil
}

// SubmitHeartbeat applies one inbound heartbeat report. A report without a
// client id is rejected with a validation error and mutates nothing.
func (t *Tracker) SubmitHeartbeat(ctx context.Context, report domain.HeartbeatReport) (HeartbeatResult, error) {
	if problems := report.Valid(ctx); len(problems) > 0 {
		return HeartbeatResult{}, validation.NewValidationError(problems, "heartbeat")
	}

	t.keys.Lock(report.ClientID)
	defer t.keys.Unlock(report.ClientID)

	t.mu.RLock()
	var existing *domain.ClientRecord
	if rec, ok := t.clients[report.ClientID]; ok {
		existing = &rec
	}
	t.mu.RUnlock()

	now := t.now().UTC()
	out := domain.Classify(existing, report, now)

	t.mu.Lock()
	t.clients[report.ClientID] = out.Record
	t.prependEventsLocked(out.Events)
	t.mu.Unlock()

	for _, ev := range out.Events {
		t.logger.Info("Event recorded", "type", ev.Type, "client_id", ev.ClientID, "details", ev.Details)
	}

	t.persist(ctx, out.Record, out.Events)

	return HeartbeatResult{Status: "ok", IsReboot: out.Rebooted}, nil
}

// Sweep demotes connected clients whose last heartbeat exceeds the liveness
// timeout and emits one disconnection event per demotion. Clients that are
// already disconnected are skipped, so running the sweep twice in a row
// produces no duplicate events. Returns the number of clients demoted.
func (t *Tracker) Sweep(ctx context.Context) int {
	now := t.now().UTC()

	t.mu.RLock()
	ids := make([]string, 0, len(t.clients))
	for id := range t.clients {
		ids = append(ids, id)
	}
	t.mu.RUnlock()

	demoted := 0
	for _, id := range ids {
		if t.sweepClient(ctx, id, now) {
			demoted++
		}
	}
	return demoted
}

func (t *Tracker) sweepClient(ctx context.Context, id string, now time.Time) bool {
	t.keys.Lock(id)
	defer t.keys.Unlock(id)

	t.mu.RLock()
	rec, ok := t.clients[id]
	t.mu.RUnlock()
	if !ok {
		return false
	}

	updated, ev, changed := domain.ClassifyTimeout(rec, t.cfg.LivenessTimeout, now)
	if !changed {
		return false
	}

	t.mu.Lock()
	t.clients[id] = updated
	t.prependEventsLocked([]domain.Event{ev})
	t.mu.Unlock()

	t.logger.Info("Client marked disconnected", "client_id", id, "last_seen", rec.LastSeen)
	t.persist(ctx, updated, []domain.Event{ev})
	return true
}

// Cleanup removes client records whose last heartbeat predates the cutoff.
// Events are never removed. A backend failure aborts the pass and is
// returned along with the count removed so far, never a false success.
func (t *Tracker) Cleanup(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := t.now().UTC().Add(-olderThan)

	t.mu.RLock()
	ids := make([]string, 0, len(t.clients))
	for id, rec := range t.clients {
		if rec.LastSeen.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	t.mu.RUnlock()

	removed := 0
	for _, id := range ids {
		if err := t.removeClient(ctx, id, cutoff); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (t *Tracker) removeClient(ctx context.Context, id string, cutoff time.Time) error {
	t.keys.Lock(id)
	defer t.keys.Unlock(id)

	t.mu.RLock()
	rec, ok := t.clients[id]
	t.mu.RUnlock()
	// A heartbeat may have arrived since the candidate scan.
	if !ok || !rec.LastSeen.Before(cutoff) {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.WriteTimeout)
	defer cancel()
	if err := t.store.RemoveClient(ctx, id); err != nil {
		return fmt.Errorf("failed to remove client %s: %w", id, err)
	}

	t.mu.Lock()
	delete(t.clients, id)
	t.mu.Unlock()
	return nil
}

// Clients returns a snapshot copy of the registry.
func (t *Tracker) Clients() map[string]domain.ClientRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]domain.ClientRecord, len(t.clients))
	for id, rec := range t.clients {
		out[id] = rec
	}
	return out
}

// Events returns the retained event log, newest first.
func (t *Tracker) Events() []domain.Event {
	return t.RecentEvents(0)
}

// RecentEvents returns the most recent n events, newest first. n <= 0 means
// all retained events.
func (t *Tracker) RecentEvents(n int) []domain.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n <= 0 || n > len(t.events) {
		n = len(t.events)
	}
	out := make([]domain.Event, n)
	copy(out, t.events[:n])
	return out
}

// LivenessReport evaluates every known client against the given timeout.
func (t *Tracker) LivenessReport(timeout time.Duration) LivenessReport {
	now := t.now().UTC()

	t.mu.RLock()
	defer t.mu.RUnlock()

	report := LivenessReport{Clients: make([]ClientLiveness, 0, len(t.clients))}
	for id, rec := range t.clients {
		since := now.Sub(rec.LastSeen)
		status := domain.StatusConnected
		if since > timeout {
			status = domain.StatusDisconnected
		}
		report.Clients = append(report.Clients, ClientLiveness{
			ClientID:         id,
			Hostname:         rec.Hostname,
			MinutesSinceLast: int64(since.Minutes()),
			Status:           status,
		})

		report.Summary.Total++
		if status == domain.StatusConnected {
			report.Summary.Connected++
		} else {
			report.Summary.Disconnected++
		}
	}

	sort.Slice(report.Clients, func(i, j int) bool {
		return report.Clients[i].ClientID < report.Clients[j].ClientID
	})
	return report
}

// Flush forces buffered state to durable storage.
func (t *Tracker) Flush(ctx context.Context) error {
	return t.store.Flush(ctx)
}

// prependEventsLocked inserts emitted events at the head of the log in
// emission order (last emitted ends up newest) and enforces the bound with
// a single cut. Callers hold t.mu.
func (t *Tracker) prependEventsLocked(events []domain.Event) {
	if len(events) == 0 {
		return
	}

	merged := make([]domain.Event, 0, len(events)+len(t.events))
	for i := len(events) - 1; i >= 0; i-- {
		merged = append(merged, events[i])
	}
	merged = append(merged, t.events...)

	if len(merged) > t.cfg.MaxEvents {
		merged = merged[:t.cfg.MaxEvents]
	}
	t.events = merged
}

// persist writes the record and its events through to the backend under the
// configured write timeout. Failures are logged: durability on the heartbeat
// path is best-effort and the in-memory update already happened.
func (t *Tracker) persist(ctx context.Context, rec domain.ClientRecord, events []domain.Event) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.WriteTimeout)
	defer cancel()

	if err := t.store.SaveClient(ctx, rec); err != nil {
		t.logger.Warn("Failed to persist client record", "client_id", rec.ClientID, "err", err)
	}
	for _, ev := range events {
		if err := t.store.AppendEvent(ctx, ev); err != nil {
			t.logger.Warn("Failed to persist event", "event_id", ev.ID, "type", ev.Type, "err", err)
		}
	}
	if len(events) > 0 {
		if err := t.store.TrimEvents(ctx, t.cfg.MaxEvents); err != nil {
			t.logger.Warn("Failed to trim event log", "err", err)
		}
	}
}
