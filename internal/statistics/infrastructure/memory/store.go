package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	statistics "dominion-bridge/internal/statistics/domain"
)

// SeriesStore is an in-memory statistics store for demo/testing. Points are
// kept sorted by start instant per statistic id.
type SeriesStore struct {
	mu     sync.RWMutex
	meta   map[string]statistics.Metadata
	points map[string][]statistics.Point
}

// NewSeriesStore constructs an empty store.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{
		meta:   make(map[string]statistics.Metadata),
		points: make(map[string][]statistics.Point),
	}
}

// EnsureMetadata registers or replaces series metadata.
func (s *SeriesStore) EnsureMetadata(_ context.Context, meta statistics.Metadata) error {
	if meta.StatisticID == "" {
		return statistics.ErrEmptyStatisticID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[meta.StatisticID] = meta
	return nil
}

// Metadata returns registered metadata for a key, if any.
func (s *SeriesStore) Metadata(statisticID string) (statistics.Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.meta[statisticID]
	return meta, ok
}

// LastPoint returns the most recent point, or nil for an empty series.
func (s *SeriesStore) LastPoint(_ context.Context, statisticID string) (*statistics.Point, error) {
	if statisticID == "" {
		return nil, statistics.ErrEmptyStatisticID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	series := s.points[statisticID]
	if len(series) == 0 {
		return nil, nil
	}
	last := series[len(series)-1]
	return &last, nil
}

// SumBefore returns the last known cumulative sum at or before the instant.
func (s *SeriesStore) SumBefore(_ context.Context, statisticID string, at time.Time) (float64, bool, error) {
	if statisticID == "" {
		return 0, false, statistics.ErrEmptyStatisticID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	series := s.points[statisticID]
	for i := len(series) - 1; i >= 0; i-- {
		if !series[i].Start.After(at) {
			return series[i].Sum, true, nil
		}
	}
	return 0, false, nil
}

// Upsert inserts or replaces points by start instant.
func (s *SeriesStore) Upsert(_ context.Context, statisticID string, points []statistics.Point) error {
	if statisticID == "" {
		return statistics.ErrEmptyStatisticID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	series := s.points[statisticID]
	for _, p := range points {
		replaced := false
		for i := range series {
			if series[i].Start.Equal(p.Start) {
				series[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			series = append(series, p)
		}
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Start.Before(series[j].Start) })
	s.points[statisticID] = series
	return nil
}

// Points returns a copy of the series, sorted ascending.
func (s *SeriesStore) Points(statisticID string) []statistics.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	series := s.points[statisticID]
	out := make([]statistics.Point, len(series))
	copy(out, series)
	return out
}
