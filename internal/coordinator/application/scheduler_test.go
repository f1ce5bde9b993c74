package application

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"dominion-bridge/internal/statistics/infrastructure/memory"
)

func TestSchedulerStopsOnCancel(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("portal down")}
	coord := newTestCoordinator(t, fetcher, memory.NewSeriesStore())
	s := NewScheduler(coord, 10*time.Millisecond, log.New(io.Discard, "", 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestSchedulerDefaultsInterval(t *testing.T) {
	s := NewScheduler(nil, 0, nil)
	if s.interval != DefaultUpdateInterval {
		t.Fatalf("interval = %v, want %v", s.interval, DefaultUpdateInterval)
	}
}
