package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	sharedlogger "lighthouse-v0/internal/shared/logger"
	"lighthouse-v0/internal/tracking/domain"
)

// Ensure NATSStore implements the domain Store interface
var _ domain.Store = (*NATSStore)(nil)

const (
	natsClientBucket = "lighthouse_clients"
	natsEventStream  = "LIGHTHOUSE_EVENTS"
	natsEventSubject = "lighthouse.events"
)

// NATSStore is the remote backend: a JetStream KeyValue bucket holds one
// entry per client and a MaxMsgs-capped stream holds the event log. The
// stream's DiscardOld policy enforces the event bound server-side, so
// TrimEvents has nothing left to do. Reads from other processes are
// eventually consistent, which the tracking engine tolerates.
type NATSStore struct {
	logger sharedlogger.Logger
	nc     *nats.Conn
	js     jetstream.JetStream
	kv     jetstream.KeyValue
	stream jetstream.Stream
}

// NewNATSStore connects to the NATS server and provisions the client bucket
// and the capped event stream.
func NewNATSStore(ctx context.Context, logger sharedlogger.Logger, natsURL string, maxEvents int) (*NATSStore, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: natsClientBucket})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create KV bucket: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     natsEventStream,
		Subjects: []string{natsEventSubject},
		MaxMsgs:  int64(maxEvents),
		Discard:  jetstream.DiscardOld,
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create event stream: %w", err)
	}

	return &NATSStore{
		logger: logger,
		nc:     nc,
		js:     js,
		kv:     kv,
		stream: stream,
	}, nil
}

func (s *NATSStore) LoadAll(ctx context.Context) (map[string]domain.ClientRecord, []domain.Event, error) {
	clients := make(map[string]domain.ClientRecord)

	keys, err := s.ListClientKeys(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, key := range keys {
		entry, err := s.kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get client %s: %w", key, err)
		}

		var rec domain.ClientRecord
		if err := json.Unmarshal(entry.Value(), &rec); err != nil {
			s.logger.Warn("Skipping undecodable client record", "client_id", key, "err", err)
			continue
		}
		clients[key] = rec
	}

	events, err := s.loadEvents(ctx)
	if err != nil {
		return nil, nil, err
	}

	return clients, events, nil
}

func (s *NATSStore) loadEvents(ctx context.Context) ([]domain.Event, error) {
	info, err := s.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect event stream: %w", err)
	}
	if info.State.Msgs == 0 {
		return nil, nil
	}

	cons, err := s.js.OrderedConsumer(ctx, natsEventStream, jetstream.OrderedConsumerConfig{
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event consumer: %w", err)
	}

	events := make([]domain.Event, 0, info.State.Msgs)
	remaining := int(info.State.Msgs)
	for remaining > 0 {
		batch, err := cons.FetchNoWait(remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch events: %w", err)
		}

		got := 0
		for msg := range batch.Messages() {
			var ev domain.Event
			if err := json.Unmarshal(msg.Data(), &ev); err != nil {
				s.logger.Warn("Skipping undecodable event", "err", err)
			} else {
				events = append(events, ev)
			}
			got++
		}
		if err := batch.Error(); err != nil {
			return nil, fmt.Errorf("failed to fetch events: %w", err)
		}
		if got == 0 {
			break
		}
		remaining -= got
	}

	return events, nil
}

func (s *NATSStore) SaveClient(ctx context.Context, rec domain.ClientRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode client %s: %w", rec.ClientID, err)
	}
	if _, err := s.kv.Put(ctx, rec.ClientID, raw); err != nil {
		return fmt.Errorf("failed to put client %s: %w", rec.ClientID, err)
	}
	return nil
}

func (s *NATSStore) RemoveClient(ctx context.Context, clientID string) error {
	err := s.kv.Purge(ctx, clientID)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove client %s: %w", clientID, err)
	}
	return nil
}

func (s *NATSStore) AppendEvent(ctx context.Context, ev domain.Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", ev.ID, err)
	}
	if _, err := s.js.Publish(ctx, natsEventSubject, raw); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", ev.ID, err)
	}
	return nil
}

// TrimEvents is a no-op: the stream's MaxMsgs/DiscardOld policy already
// evicts the oldest entries.
func (s *NATSStore) TrimEvents(ctx context.Context, max int) error { return nil }

func (s *NATSStore) ListClientKeys(ctx context.Context) ([]string, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list client keys: %w", err)
	}

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}
	return keys, nil
}

// Flush is a no-op: every write already went through.
func (s *NATSStore) Flush(ctx context.Context) error { return nil }

// Close drains the connection so pending publishes are not lost.
func (s *NATSStore) Close() error {
	return s.nc.Drain()
}
