package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sharedlogger "lighthouse-v0/internal/shared/logger"
	"lighthouse-v0/internal/tracking/domain"
)

// Ensure FileStore implements the domain Store interface
var _ domain.Store = (*FileStore)(nil)

// snapshot is the on-disk shape of the whole-file backend.
type snapshot struct {
	Clients map[string]domain.ClientRecord `json:"clients"`
	Events  []domain.Event                 `json:"events"` // oldest first
}

// FileStore keeps the full state in memory and writes it out as a single
// JSON snapshot on Flush. Writes go to a temp file first and are renamed
// into place, so a crash mid-write never leaves a torn snapshot behind.
type FileStore struct {
	logger sharedlogger.Logger
	path   string

	mu      sync.Mutex
	clients map[string]domain.ClientRecord
	events  []domain.Event
	dirty   bool
}

// NewFileStore creates a file-backed store at the given path. The file is
// not read until LoadAll.
func NewFileStore(logger sharedlogger.Logger, path string) *FileStore {
	return &FileStore{
		logger:  logger,
		path:    path,
		clients: make(map[string]domain.ClientRecord),
	}
}

// LoadAll reads the snapshot. A missing file starts empty; a corrupt
// snapshot is logged and also starts empty, never failing startup.
func (s *FileStore) LoadAll(ctx context.Context) (map[string]domain.ClientRecord, []domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.stateLocked()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warn("Corrupt state snapshot, starting empty", "path", s.path, "err", err)
		return s.stateLocked()
	}

	if snap.Clients != nil {
		s.clients = snap.Clients
	}
	s.events = snap.Events

	return s.stateLocked()
}

func (s *FileStore) stateLocked() (map[string]domain.ClientRecord, []domain.Event, error) {
	clients := make(map[string]domain.ClientRecord, len(s.clients))
	for id, rec := range s.clients {
		clients[id] = rec
	}
	events := make([]domain.Event, len(s.events))
	copy(events, s.events)
	return clients, events, nil
}

func (s *FileStore) SaveClient(ctx context.Context, rec domain.ClientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[rec.ClientID] = rec
	s.dirty = true
	return nil
}

func (s *FileStore) RemoveClient(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)
	s.dirty = true
	return nil
}

func (s *FileStore) AppendEvent(ctx context.Context, ev domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	s.dirty = true
	return nil
}

func (s *FileStore) TrimEvents(ctx context.Context, max int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if max > 0 && len(s.events) > max {
		s.events = append([]domain.Event(nil), s.events[len(s.events)-max:]...)
		s.dirty = true
	}
	return nil
}

func (s *FileStore) ListClientKeys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.clients))
	for id := range s.clients {
		keys = append(keys, id)
	}
	return keys, nil
}

// Flush writes the whole snapshot when anything changed since the last one.
func (s *FileStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	raw, err := json.Marshal(snapshot{Clients: s.clients, Events: s.events})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	s.dirty = false
	return nil
}

// Close flushes any pending state.
func (s *FileStore) Close() error {
	return s.Flush(context.Background())
}
