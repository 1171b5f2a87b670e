package heartbeat

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestService_TicksUntilCancelled(t *testing.T) {
	var ticks atomic.Int32
	s := NewService(10*time.Millisecond, func(_ context.Context, _ time.Time) int {
		ticks.Add(1)
		return 0
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(60 * time.Millisecond)
	cancel()

	if err := <-done; err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ticks.Load() < 2 {
		t.Errorf("expected at least 2 ticks, got %d", ticks.Load())
	}
}

func TestService_DefaultInterval(t *testing.T) {
	s := NewService(0, nil)
	if s.Interval() != 30*time.Minute {
		t.Errorf("default interval = %v", s.Interval())
	}
}

func TestService_NilCallback(t *testing.T) {
	s := NewService(5*time.Millisecond, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()
	// Must not panic with no callback.
	_ = s.Start(ctx)
}
