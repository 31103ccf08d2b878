package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lighthouse-v0/internal/tracking/domain"
)

// Ensure SQLiteStore implements the domain Store interface
var _ domain.Store = (*SQLiteStore)(nil)

const sqliteDDL = `
CREATE TABLE IF NOT EXISTS clients (
	client_id        TEXT PRIMARY KEY,
	hostname         TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL,
	last_seen        INTEGER NOT NULL,
	boot_time        INTEGER NOT NULL DEFAULT 0,
	total_heartbeats INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS events (
	seq       INTEGER PRIMARY KEY AUTOINCREMENT,
	id        TEXT NOT NULL UNIQUE,
	type      TEXT NOT NULL,
	ts        INTEGER NOT NULL,
	duration  INTEGER NOT NULL DEFAULT 0,
	client_id TEXT NOT NULL,
	hostname  TEXT NOT NULL DEFAULT '',
	details   TEXT NOT NULL DEFAULT ''
);
`

// SQLiteStore is a write-through backend over a local SQLite database.
// Event insertion order is the rowid sequence, so trimming keeps the
// newest rows regardless of event timestamps.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore initializes the schema and returns the store.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, sqliteDDL); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string]domain.ClientRecord, []domain.Event, error) {
	clients := make(map[string]domain.ClientRecord)

	rows, err := s.db.QueryContext(ctx,
		`SELECT client_id, hostname, status, last_seen, boot_time, total_heartbeats FROM clients`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load clients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec domain.ClientRecord
		var lastSeen, bootTime int64
		if err := rows.Scan(&rec.ClientID, &rec.Hostname, &rec.Status, &lastSeen, &bootTime, &rec.TotalHeartbeats); err != nil {
			return nil, nil, fmt.Errorf("failed to scan client: %w", err)
		}
		rec.LastSeen = fromNanos(lastSeen)
		rec.BootTime = fromNanos(bootTime)
		clients[rec.ClientID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to load clients: %w", err)
	}

	var events []domain.Event
	evRows, err := s.db.QueryContext(ctx,
		`SELECT id, type, ts, duration, client_id, hostname, details FROM events ORDER BY seq ASC`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load events: %w", err)
	}
	defer evRows.Close()

	for evRows.Next() {
		var ev domain.Event
		var ts int64
		if err := evRows.Scan(&ev.ID, &ev.Type, &ts, &ev.DurationSeconds, &ev.ClientID, &ev.Hostname, &ev.Details); err != nil {
			return nil, nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Timestamp = fromNanos(ts)
		events = append(events, ev)
	}
	if err := evRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to load events: %w", err)
	}

	return clients, events, nil
}

func (s *SQLiteStore) SaveClient(ctx context.Context, rec domain.ClientRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (client_id, hostname, status, last_seen, boot_time, total_heartbeats)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(client_id) DO UPDATE SET
			hostname = excluded.hostname,
			status = excluded.status,
			last_seen = excluded.last_seen,
			boot_time = excluded.boot_time,
			total_heartbeats = excluded.total_heartbeats`,
		rec.ClientID, rec.Hostname, rec.Status, toNanos(rec.LastSeen), toNanos(rec.BootTime), rec.TotalHeartbeats)
	if err != nil {
		return fmt.Errorf("failed to save client %s: %w", rec.ClientID, err)
	}
	return nil
}

func (s *SQLiteStore) RemoveClient(ctx context.Context, clientID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE client_id = ?`, clientID); err != nil {
		return fmt.Errorf("failed to remove client %s: %w", clientID, err)
	}
	return nil
}

func (s *SQLiteStore) AppendEvent(ctx context.Context, ev domain.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, type, ts, duration, client_id, hostname, details)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Type, toNanos(ev.Timestamp), ev.DurationSeconds, ev.ClientID, ev.Hostname, ev.Details)
	if err != nil {
		return fmt.Errorf("failed to append event %s: %w", ev.ID, err)
	}
	return nil
}

func (s *SQLiteStore) TrimEvents(ctx context.Context, max int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE seq NOT IN (
			SELECT seq FROM events ORDER BY seq DESC LIMIT ?
		)`, max)
	if err != nil {
		return fmt.Errorf("failed to trim events: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListClientKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT client_id FROM clients`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan client id: %w", err)
		}
		keys = append(keys, id)
	}
	return keys, rows.Err()
}

// Flush is a no-op: every write already went through.
func (s *SQLiteStore) Flush(ctx context.Context) error { return nil }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// toNanos keeps the zero time representable as 0.
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
