package infrastructure

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lighthouse-v0/internal/infrastructure/database"
	"lighthouse-v0/internal/tracking/domain"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	db, err := database.ConnectSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(context.Background(), db)
	if err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := domain.ClientRecord{
		ClientID:        "pi-1",
		Hostname:        "office-pi",
		Status:          domain.StatusDisconnected,
		LastSeen:        now,
		BootTime:        now.Add(-time.Hour),
		TotalHeartbeats: 42,
	}
	if err := store.SaveClient(ctx, rec); err != nil {
		t.Fatal(err)
	}
	// Upsert keeps a single row per client.
	rec.Status = domain.StatusConnected
	rec.TotalHeartbeats = 43
	if err := store.SaveClient(ctx, rec); err != nil {
		t.Fatal(err)
	}

	ev := domain.Event{
		ID: "ev-1", Type: domain.EventDisconnection, Timestamp: now,
		ClientID: "pi-1", Hostname: "office-pi", Details: "office-pi stopped sending heartbeats",
	}
	if err := store.AppendEvent(ctx, ev); err != nil {
		t.Fatal(err)
	}

	clients, events, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(clients))
	}
	got := clients["pi-1"]
	if got.Status != domain.StatusConnected || got.TotalHeartbeats != 43 ||
		!got.LastSeen.Equal(rec.LastSeen) || !got.BootTime.Equal(rec.BootTime) {
		t.Errorf("reloaded record differs: %+v", got)
	}
	if len(events) != 1 || events[0].ID != "ev-1" || !events[0].Timestamp.Equal(now) {
		t.Errorf("reloaded events differ: %+v", events)
	}
}

func TestSQLiteStore_ZeroBootTimeSurvivesReload(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	rec := domain.ClientRecord{ClientID: "pi-1", Status: domain.StatusConnected, LastSeen: time.Now().UTC()}
	if err := store.SaveClient(ctx, rec); err != nil {
		t.Fatal(err)
	}

	clients, _, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !clients["pi-1"].BootTime.IsZero() {
		t.Errorf("expected zero boot time, got %v", clients["pi-1"].BootTime)
	}
}

func TestSQLiteStore_TrimKeepsNewest(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 10; i++ {
		ev := domain.Event{
			ID:        string(rune('a' + i)),
			Type:      domain.EventReboot,
			Timestamp: now,
			ClientID:  "pi-1",
		}
		if err := store.AppendEvent(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.TrimEvents(ctx, 4); err != nil {
		t.Fatal(err)
	}

	_, events, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events after trim, got %d", len(events))
	}
	if events[0].ID != "g" || events[3].ID != "j" {
		t.Errorf("expected newest four in insertion order, got %q..%q", events[0].ID, events[3].ID)
	}
}

func TestSQLiteStore_RemoveClient(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	if err := store.SaveClient(ctx, domain.ClientRecord{ClientID: "pi-1", Status: domain.StatusConnected}); err != nil {
		t.Fatal(err)
	}
	if err := store.RemoveClient(ctx, "pi-1"); err != nil {
		t.Fatal(err)
	}
	if err := store.RemoveClient(ctx, "never-seen"); err != nil {
		t.Errorf("removing an absent client must not fail: %v", err)
	}

	keys, err := store.ListClientKeys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}
