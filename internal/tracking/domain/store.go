package domain

import "context"

// Store is the persistence boundary consumed by the tracking engine. The
// engine behaves identically whether it is backed by a whole-snapshot file,
// a SQLite database, or a remote NATS JetStream bucket.
type Store interface {
	// LoadAll hydrates the registry and event log at startup. Events are
	// returned oldest first.
	LoadAll(ctx context.Context) (map[string]ClientRecord, []Event, error)

	// SaveClient persists one client record, keyed by its client id.
	SaveClient(ctx context.Context, rec ClientRecord) error

	// RemoveClient deletes a client record. Removing an absent client is
	// not an error.
	RemoveClient(ctx context.Context, clientID string) error

	// AppendEvent adds one event to the end of the durable log.
	AppendEvent(ctx context.Context, ev Event) error

	// TrimEvents discards all but the newest max events in one operation.
	TrimEvents(ctx context.Context, max int) error

	// ListClientKeys returns the client ids currently persisted.
	ListClientKeys(ctx context.Context) ([]string, error)

	// Flush forces buffered state to durable storage. Write-through
	// backends may treat it as a no-op.
	Flush(ctx context.Context) error

	Close() error
}
