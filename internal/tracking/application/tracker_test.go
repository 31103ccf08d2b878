package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"lighthouse-v0/internal/shared/validation"
	"lighthouse-v0/internal/tracking/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}

// mockStore is an in-memory Store with injectable failures.
type mockStore struct {
	mu      sync.Mutex
	clients map[string]domain.ClientRecord
	events  []domain.Event // oldest first

	saveErr   error
	removeErr error
	appendErr error

	flushes int
}

func newMockStore() *mockStore {
	return &mockStore{clients: make(map[string]domain.ClientRecord)}
}

func (m *mockStore) LoadAll(ctx context.Context) (map[string]domain.ClientRecord, []domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clients := make(map[string]domain.ClientRecord, len(m.clients))
	for id, rec := range m.clients {
		clients[id] = rec
	}
	events := make([]domain.Event, len(m.events))
	copy(events, m.events)
	return clients, events, nil
}

func (m *mockStore) SaveClient(ctx context.Context, rec domain.ClientRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.clients[rec.ClientID] = rec
	return nil
}

func (m *mockStore) RemoveClient(ctx context.Context, clientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.clients, clientID)
	return nil
}

func (m *mockStore) AppendEvent(ctx context.Context, ev domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *mockStore) TrimEvents(ctx context.Context, max int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) > max {
		m.events = m.events[len(m.events)-max:]
	}
	return nil
}

func (m *mockStore) ListClientKeys(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.clients))
	for id := range m.clients {
		keys = append(keys, id)
	}
	return keys, nil
}

func (m *mockStore) Flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return nil
}

func (m *mockStore) Close() error { return nil }

func newTestTracker(t *testing.T, store domain.Store, cfg TrackerConfig) (*Tracker, *time.Time) {
	t.Helper()
	tr := NewTracker(nopLogger{}, store, cfg)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return now }
	return tr, &now
}

func TestTracker_FirstContact(t *testing.T) {
	store := newMockStore()
	tr, _ := newTestTracker(t, store, TrackerConfig{})

	res, err := tr.SubmitHeartbeat(context.Background(), domain.HeartbeatReport{ClientID: "pi-1", IsReboot: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != "ok" || res.IsReboot {
		t.Errorf("expected ok without reboot, got %+v", res)
	}

	clients := tr.Clients()
	if len(clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(clients))
	}
	if clients["pi-1"].Status != domain.StatusConnected {
		t.Errorf("expected connected, got %q", clients["pi-1"].Status)
	}
	if got := tr.Events(); len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
	if _, ok := store.clients["pi-1"]; !ok {
		t.Error("expected record to be written through to the store")
	}
}

func TestTracker_RejectsMissingClientID(t *testing.T) {
	store := newMockStore()
	tr, _ := newTestTracker(t, store, TrackerConfig{})

	_, err := tr.SubmitHeartbeat(context.Background(), domain.HeartbeatReport{})
	if !errors.Is(err, &validation.ValidationError{}) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(tr.Clients()) != 0 || len(store.clients) != 0 {
		t.Error("rejected heartbeat must not mutate state")
	}
}

func TestTracker_SweepIsIdempotent(t *testing.T) {
	store := newMockStore()
	tr, now := newTestTracker(t, store, TrackerConfig{LivenessTimeout: 5 * time.Minute})
	ctx := context.Background()

	if _, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "pi-1"}); err != nil {
		t.Fatal(err)
	}

	*now = now.Add(6 * time.Minute)
	if n := tr.Sweep(ctx); n != 1 {
		t.Fatalf("expected 1 demotion, got %d", n)
	}
	if n := tr.Sweep(ctx); n != 0 {
		t.Fatalf("expected second sweep to demote nothing, got %d", n)
	}

	events := tr.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 disconnection event, got %d", len(events))
	}
	if events[0].Type != domain.EventDisconnection {
		t.Errorf("expected %q, got %q", domain.EventDisconnection, events[0].Type)
	}
}

func TestTracker_OutageScenario(t *testing.T) {
	store := newMockStore()
	tr, now := newTestTracker(t, store, TrackerConfig{LivenessTimeout: 5 * time.Minute})
	ctx := context.Background()

	boot1 := now.Add(-time.Hour)

	// First run: record created, no events.
	res, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "A", BootTime: boot1, IsFirstRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsReboot || len(tr.Events()) != 0 {
		t.Fatal("first contact must not emit events")
	}

	// Steady heartbeat a minute later: still no events.
	*now = now.Add(time.Minute)
	if _, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "A", BootTime: boot1}); err != nil {
		t.Fatal(err)
	}
	if len(tr.Events()) != 0 {
		t.Fatal("steady heartbeat must not emit events")
	}

	// Silence for 6 minutes, sweep demotes and emits one disconnection.
	*now = now.Add(6 * time.Minute)
	if n := tr.Sweep(ctx); n != 1 {
		t.Fatalf("expected 1 demotion, got %d", n)
	}

	// Power back: new boot session reconnects and reboots in one heartbeat.
	boot2 := *now
	res, err = tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "A", BootTime: boot2})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsReboot {
		t.Error("expected reboot to be detected")
	}

	events := tr.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Newest first: reconnection, reboot, disconnection.
	if events[0].Type != domain.EventReconnection {
		t.Errorf("expected newest event %q, got %q", domain.EventReconnection, events[0].Type)
	}
	if events[1].Type != domain.EventReboot {
		t.Errorf("expected %q, got %q", domain.EventReboot, events[1].Type)
	}
	if events[2].Type != domain.EventDisconnection {
		t.Errorf("expected oldest event %q, got %q", domain.EventDisconnection, events[2].Type)
	}
	if events[0].DurationSeconds != 360 {
		t.Errorf("expected 360s downtime, got %d", events[0].DurationSeconds)
	}

	if rec := tr.Clients()["A"]; rec.Status != domain.StatusConnected {
		t.Errorf("expected connected, got %q", rec.Status)
	}
}

func TestTracker_EventLogBound(t *testing.T) {
	store := newMockStore()
	tr, now := newTestTracker(t, store, TrackerConfig{MaxEvents: 5})
	ctx := context.Background()

	boot := *now
	if _, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "pi-1", BootTime: boot}); err != nil {
		t.Fatal(err)
	}

	// Each new boot session emits one reboot event.
	for i := 0; i < 8; i++ {
		*now = now.Add(time.Minute)
		boot = *now
		if _, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "pi-1", BootTime: boot}); err != nil {
			t.Fatal(err)
		}
	}

	events := tr.Events()
	if len(events) != 5 {
		t.Fatalf("expected log bounded at 5, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Fatal("expected newest-first ordering")
		}
	}
	// The retained entries are the most recent ones.
	if !events[0].Timestamp.Equal(*now) {
		t.Errorf("expected newest event at %v, got %v", *now, events[0].Timestamp)
	}
	if len(store.events) != 5 {
		t.Errorf("expected store trimmed to 5, got %d", len(store.events))
	}
}

func TestTracker_StorageFailureStillAcceptsHeartbeat(t *testing.T) {
	store := newMockStore()
	store.saveErr = errors.New("backend down")
	tr, _ := newTestTracker(t, store, TrackerConfig{})

	res, err := tr.SubmitHeartbeat(context.Background(), domain.HeartbeatReport{ClientID: "pi-1"})
	if err != nil {
		t.Fatalf("heartbeat must succeed when only persistence fails, got %v", err)
	}
	if res.Status != "ok" {
		t.Errorf("expected ok, got %q", res.Status)
	}
	if len(tr.Clients()) != 1 {
		t.Error("in-memory state must still be updated")
	}
}

func TestTracker_Cleanup(t *testing.T) {
	store := newMockStore()
	tr, now := newTestTracker(t, store, TrackerConfig{})
	ctx := context.Background()

	if _, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "old"}); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(48 * time.Hour)
	if _, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "fresh"}); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(2 * time.Minute)
	tr.Sweep(ctx) // demotes "old" only, "fresh" is within the timeout

	removed, err := tr.Cleanup(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}

	clients := tr.Clients()
	if _, ok := clients["old"]; ok {
		t.Error("expected stale record to be removed")
	}
	if _, ok := clients["fresh"]; !ok {
		t.Error("expected fresh record to be kept")
	}
	if _, ok := store.clients["old"]; ok {
		t.Error("expected stale record to be removed from the store")
	}
	// Cleanup never touches events.
	if len(tr.Events()) != 1 {
		t.Errorf("expected events untouched, got %d", len(tr.Events()))
	}
}

func TestTracker_CleanupPropagatesStorageFailure(t *testing.T) {
	store := newMockStore()
	tr, now := newTestTracker(t, store, TrackerConfig{})
	ctx := context.Background()

	if _, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "old"}); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(48 * time.Hour)

	store.removeErr = errors.New("backend down")
	removed, err := tr.Cleanup(ctx, 24*time.Hour)
	if err == nil {
		t.Fatal("expected cleanup to propagate the storage failure")
	}
	if removed != 0 {
		t.Errorf("expected no removals reported, got %d", removed)
	}
	if _, ok := tr.Clients()["old"]; !ok {
		t.Error("record must stay in memory when the backend delete failed")
	}
}

func TestTracker_LivenessReport(t *testing.T) {
	store := newMockStore()
	tr, now := newTestTracker(t, store, TrackerConfig{})
	ctx := context.Background()

	if _, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "a"}); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(10 * time.Minute)
	if _, err := tr.SubmitHeartbeat(ctx, domain.HeartbeatReport{ClientID: "b"}); err != nil {
		t.Fatal(err)
	}

	report := tr.LivenessReport(5 * time.Minute)
	if report.Summary.Total != 2 || report.Summary.Connected != 1 || report.Summary.Disconnected != 1 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.Clients[0].ClientID != "a" || report.Clients[0].Status != domain.StatusDisconnected {
		t.Errorf("expected a disconnected, got %+v", report.Clients[0])
	}
	if report.Clients[0].MinutesSinceLast != 10 {
		t.Errorf("expected 10 minutes since last, got %d", report.Clients[0].MinutesSinceLast)
	}
	if report.Clients[1].ClientID != "b" || report.Clients[1].Status != domain.StatusConnected {
		t.Errorf("expected b connected, got %+v", report.Clients[1])
	}
}

func TestTracker_LoadOrdersEventsNewestFirst(t *testing.T) {
	store := newMockStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		store.events = append(store.events, domain.Event{
			ID:        string(rune('a' + i)),
			Type:      domain.EventReboot,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			ClientID:  "pi-1",
		})
	}
	store.clients["pi-1"] = domain.ClientRecord{ClientID: "pi-1", Status: domain.StatusConnected, LastSeen: base}

	tr, _ := newTestTracker(t, store, TrackerConfig{})
	if err := tr.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	events := tr.Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].ID != "c" || events[2].ID != "a" {
		t.Errorf("expected newest-first order, got %q..%q", events[0].ID, events[2].ID)
	}
	if len(tr.Clients()) != 1 {
		t.Errorf("expected 1 client, got %d", len(tr.Clients()))
	}
}
