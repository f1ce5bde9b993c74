package application

import (
	"context"
	"log"
	"time"
)

// Scheduler triggers pipeline runs on a fixed interval.
type Scheduler struct {
	coordinator *Coordinator
	interval    time.Duration
	logger      *log.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(coordinator *Coordinator, interval time.Duration, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{coordinator: coordinator, interval: interval, logger: logger}
}

// Start runs the pipeline once immediately and then on every interval tick
// until the context is cancelled. Runs are sequential; a slow run delays the
// next tick rather than overlapping it.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.coordinator == nil {
		return
	}
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.coordinator.RunOnce(ctx); err != nil {
		s.logger.Printf("scheduler: run error: %v", err)
	}
}
