package application

import (
	"context"
	"sync"
	"time"

	sharedlogger "lighthouse-v0/internal/shared/logger"
)

// Sweeper periodically runs the tracker's liveness sweep. It is the only
// path that moves a client from connected to disconnected.
type Sweeper struct {
	logger   sharedlogger.Logger
	tracker  *Tracker
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a sweeper over the given tracker.
func NewSweeper(logger sharedlogger.Logger, tracker *Tracker, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		logger:   logger,
		tracker:  tracker,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.run()
	s.logger.Debug("Sweeper started", "interval", s.interval)
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if n := s.tracker.Sweep(s.ctx); n > 0 {
				s.logger.Info("Sweep demoted stale clients", "count", n)
			}
		}
	}
}

// Stop halts the sweep loop, waiting up to the context deadline.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
