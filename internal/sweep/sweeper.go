// Package sweep runs the interval-based expiry housekeeping across all
// users. The per-request sweep in the API layer covers the requesting user;
// this sweeper catches tasks of users who have not made a request recently.
package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"taskward/internal/domain/lifecycle"
	"taskward/internal/store"
)

// Sweeper periodically flips overdue tasks to Expired across all users.
// Both this sweeper and the per-request sweep use the same boundary,
// lifecycle.DateOnly(now), so a task never reports itself non-expired in
// one code path and expired in another.
type Sweeper struct {
	tasks    store.TaskStore
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time // Injectable for testing

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

// NewSweeper creates a Sweeper that runs every interval.
// If logger is nil, a default logger will be used.
func NewSweeper(tasks store.TaskStore, interval time.Duration, logger *slog.Logger) *Sweeper {
	if tasks == nil {
		panic("task store cannot be nil")
	}
	if interval <= 0 {
		panic("interval must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		tasks:    tasks,
		interval: interval,
		logger:   logger.With(slog.String("component", "sweeper")),
		now:      time.Now,
	}
}

// Start launches the background sweep loop. Calling Start on a running
// sweeper is a no-op.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(s.stopCh, s.doneCh)
	s.logger.Info("expiry sweeper started", slog.Duration("interval", s.interval))
}

// Stop terminates the sweep loop and waits for the in-flight sweep, if any,
// to finish. Calling Stop on a stopped sweeper is a no-op.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false

	close(s.stopCh)
	<-s.doneCh
	s.logger.Info("expiry sweeper stopped")
}

func (s *Sweeper) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

// sweepOnce performs one sweep pass. Failures are logged and swallowed;
// housekeeping must not crash the process.
func (s *Sweeper) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	boundary := lifecycle.DateOnly(s.now())

	count, err := s.tasks.ExpireAllOverdue(ctx, boundary)
	if err != nil {
		s.logger.Warn("interval expiry sweep failed", slog.String("error", err.Error()))
		return
	}

	if count > 0 {
		s.logger.Info("interval expiry sweep transitioned tasks", slog.Int64("count", count))
	}
}
