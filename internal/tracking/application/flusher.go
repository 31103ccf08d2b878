package application

import (
	"context"
	"sync"
	"time"

	sharedlogger "lighthouse-v0/internal/shared/logger"
)

// Flusher periodically forces buffered state to durable storage. The final
// flush on shutdown is the caller's responsibility so state is never lost
// between the last tick and process exit.
type Flusher struct {
	logger   sharedlogger.Logger
	tracker  *Tracker
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFlusher creates a flusher over the given tracker.
func NewFlusher(logger sharedlogger.Logger, tracker *Tracker, interval time.Duration) *Flusher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Flusher{
		logger:   logger,
		tracker:  tracker,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the flush loop.
func (f *Flusher) Start() {
	f.wg.Add(1)
	go f.run()
	f.logger.Debug("Flusher started", "interval", f.interval)
}

func (f *Flusher) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return
		case <-ticker.C:
			if err := f.tracker.Flush(f.ctx); err != nil {
				f.logger.Warn("Periodic flush failed", "err", err)
			}
		}
	}
}

// Stop halts the flush loop, waiting up to the context deadline.
func (f *Flusher) Stop(ctx context.Context) error {
	f.cancel()

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
