package application

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	billing "dominion-bridge/internal/billing/domain"
	"dominion-bridge/internal/fetch"
	"dominion-bridge/internal/observability/metrics"
	statistics "dominion-bridge/internal/statistics/domain"
	usageapp "dominion-bridge/internal/usage/application"
	usage "dominion-bridge/internal/usage/domain"
	"dominion-bridge/internal/usage/infrastructure/excel"
)

// Snapshot is the outcome of the last successful pipeline run. Readings and
// Hourly cover the window of the last export; Bill was captured in the same
// session.
type Snapshot struct {
	Account     string
	Readings    []usage.LocalizedReading
	Hourly      []usage.HourlyBucket
	Bill        billing.BillSummary
	FetchedAt   time.Time
	CompletedAt time.Time

	DroppedReadings int
	TrimmedDays     int
	MergedPoints    int
}

// Coordinator runs the fetch, transform and merge pipeline and caches the
// latest snapshot for the API.
type Coordinator struct {
	fetcher   fetch.Fetcher
	loader    *excel.Loader
	processor *usageapp.Processor
	merger    *statistics.Merger
	account   string
	logger    *log.Logger

	keepDownloads bool

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(
	fetcher fetch.Fetcher,
	loader *excel.Loader,
	processor *usageapp.Processor,
	merger *statistics.Merger,
	account string,
	logger *log.Logger,
) (*Coordinator, error) {
	if fetcher == nil {
		return nil, errors.New("coordinator: fetcher required")
	}
	if loader == nil {
		return nil, errors.New("coordinator: loader required")
	}
	if processor == nil {
		return nil, errors.New("coordinator: processor required")
	}
	if merger == nil {
		return nil, errors.New("coordinator: merger required")
	}
	if account == "" {
		return nil, errors.New("coordinator: account required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		fetcher:   fetcher,
		loader:    loader,
		processor: processor,
		merger:    merger,
		account:   account,
		logger:    logger,
	}, nil
}

// KeepDownloads disables deletion of downloaded exports after processing.
func (c *Coordinator) KeepDownloads(keep bool) {
	c.keepDownloads = keep
}

// Snapshot returns the latest successful run, or nil before the first one.
func (c *Coordinator) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// RunOnce executes one full pipeline cycle. Any stage error aborts the
// cycle; the cached snapshot and the statistic store keep their previous
// state.
func (c *Coordinator) RunOnce(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	snap, err := c.run(ctx)
	if err != nil {
		metrics.ObserveRun(metrics.ResultError, time.Since(start))
		return nil, err
	}
	metrics.ObserveRun(metrics.ResultSuccess, time.Since(start))
	return snap, nil
}

func (c *Coordinator) run(ctx context.Context) (*Snapshot, error) {
	fetchStart := time.Now()
	download, err := c.fetcher.FetchUsageData(ctx)
	if err != nil {
		metrics.ObserveFetch(metrics.ResultError, time.Since(fetchStart))
		return nil, err
	}
	metrics.ObserveFetch(metrics.ResultSuccess, time.Since(fetchStart))

	if !c.keepDownloads {
		defer func() {
			if err := os.Remove(download.Path); err != nil && !os.IsNotExist(err) {
				c.logger.Printf("coordinator: remove download %s: %v", download.Path, err)
			}
		}()
	}

	raw, err := c.loader.Load(download.Path)
	if err != nil {
		return nil, err
	}

	result, err := c.processor.Run(raw)
	if err != nil {
		return nil, err
	}
	if result.DroppedReadings > 0 {
		c.logger.Printf("coordinator: dropped %d readings at spring-forward gaps", result.DroppedReadings)
	}

	merged, err := c.merger.Merge(ctx, statistics.ConsumptionMetadata(c.account), result.Hourly)
	if err != nil {
		return nil, err
	}

	metrics.AddReadingsProcessed(len(result.Readings))
	metrics.AddReadingsDropped(result.DroppedReadings)
	for i := 0; i < result.TrimmedDays; i++ {
		metrics.IncDayTrimmed()
	}
	metrics.AddPointsMerged(merged)

	snap := &Snapshot{
		Account:         c.account,
		Readings:        result.Readings,
		Hourly:          result.Hourly,
		Bill:            download.Bill,
		FetchedAt:       download.FetchedAt,
		CompletedAt:     time.Now(),
		DroppedReadings: result.DroppedReadings,
		TrimmedDays:     result.TrimmedDays,
		MergedPoints:    merged,
	}

	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()

	c.logger.Printf("coordinator: run complete readings=%d hours=%d merged=%d",
		len(snap.Readings), len(snap.Hourly), snap.MergedPoints)
	return snap, nil
}
