// Package heartbeat runs the periodic tick that fires wake-on-heartbeat
// cron jobs. Jobs with wakeMode "next-heartbeat" are never armed on
// their own timers; they wait here for the next tick.
package heartbeat

import (
	"context"
	"log/slog"
	"time"
)

// OnTickFunc is called on every heartbeat with the tick time. It
// returns how many jobs it fired.
type OnTickFunc func(ctx context.Context, now time.Time) int

// Service runs the heartbeat loop.
type Service struct {
	interval time.Duration
	onTick   OnTickFunc
}

// NewService creates a heartbeat. interval defaults to 30 minutes if
// zero or negative.
func NewService(interval time.Duration, onTick OnTickFunc) *Service {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Service{interval: interval, onTick: onTick}
}

// Interval returns the configured tick period.
func (s *Service) Interval() time.Duration { return s.interval }

// Start runs the loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("heartbeat: started", "interval", s.interval)

	for {
		select {
		case now := <-ticker.C:
			s.tick(ctx, now)
		case <-ctx.Done():
			slog.Info("heartbeat: stopped")
			return ctx.Err()
		}
	}
}

func (s *Service) tick(ctx context.Context, now time.Time) {
	if s.onTick == nil {
		return
	}
	if fired := s.onTick(ctx, now); fired > 0 {
		slog.Info("heartbeat: fired pending jobs", "count", fired)
	}
}
