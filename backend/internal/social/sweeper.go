package social

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically deletes expired read notifications in the background.
type Sweeper struct {
	notifications *NotificationService
	interval      time.Duration
	logger        *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(notifications *NotificationService, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		notifications: notifications,
		interval:      interval,
		logger:        logger.Named("sweeper"),
	}
}

// Start launches the sweep loop. It returns immediately; the loop runs until Stop is
// called or ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return fmt.Errorf("sweeper already running")
	}
	if s.interval <= 0 {
		return fmt.Errorf("sweeper interval must be positive, got %s", s.interval)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		s.run(loopCtx)
	}()

	s.logger.Info("Notification sweeper started",
		zap.Duration("interval", s.interval),
		zap.Duration("retention", s.notifications.retention()),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("Notification sweeper stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep. Failures are logged and left for the next tick.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if _, err := s.notifications.SweepExpired(sweepCtx); err != nil {
		s.logger.Error("Notification sweep failed", zap.Error(err))
	}
}
