package statistics

import (
	"context"
	"time"

	usage "dominion-bridge/internal/usage/domain"
)

// DefaultCorrectionWindowDays bounds how far back one run may rewrite the
// persisted series. Everything older is trusted and left untouched, which
// caps the blast radius of a bad upstream revision. Overridable per merger.
const DefaultCorrectionWindowDays = 30

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Merger folds freshly aggregated hourly buckets into a persisted cumulative
// series. Upstream exports revise recent hours, so each run recomputes the
// tail of the series inside a bounded correction window, anchored to the
// last trusted cumulative sum.
type Merger struct {
	store      SeriesStore
	clock      Clock
	loc        *time.Location
	windowDays int
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithCorrectionWindowDays overrides the correction window bound.
func WithCorrectionWindowDays(days int) MergerOption {
	return func(m *Merger) {
		if days > 0 {
			m.windowDays = days
		}
	}
}

// NewMerger constructs a Merger. loc is the timezone used to floor "now" to
// a day boundary when computing the window.
func NewMerger(store SeriesStore, clock Clock, loc *time.Location, opts ...MergerOption) (*Merger, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	m := &Merger{
		store:      store,
		clock:      clock,
		loc:        loc,
		windowDays: DefaultCorrectionWindowDays,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Plan computes the points one run would write, without writing them.
//
// First run (empty series): every bucket, cumulative sum seeded at zero.
// Otherwise the correction window opens at max(last persisted start, start
// of today minus the window bound); only buckets strictly after that instant
// are emitted, with sums anchored to the last known cumulative sum at or
// before the window start. An empty plan is the expected outcome whenever no
// new hour has completed.
func (m *Merger) Plan(ctx context.Context, statisticID string, hourly []usage.HourlyBucket) ([]Point, error) {
	if statisticID == "" {
		return nil, ErrEmptyStatisticID
	}

	last, err := m.store.LastPoint(ctx, statisticID)
	if err != nil {
		return nil, err
	}

	baseline := 0.0
	buckets := hourly
	if last != nil {
		now := m.clock.Now().In(m.loc)
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, m.loc)
		horizon := today.AddDate(0, 0, -m.windowDays)

		correctionStart := last.Start
		if horizon.After(correctionStart) {
			correctionStart = horizon
		}

		sum, ok, err := m.store.SumBefore(ctx, statisticID, correctionStart)
		if err != nil {
			return nil, err
		}
		if ok {
			baseline = sum
		}

		filtered := make([]usage.HourlyBucket, 0, len(buckets))
		for _, b := range buckets {
			if b.HourStart.After(correctionStart) {
				filtered = append(filtered, b)
			}
		}
		buckets = filtered
	}

	if len(buckets) == 0 {
		return nil, nil
	}

	points := make([]Point, 0, len(buckets))
	running := baseline
	for _, b := range buckets {
		running += b.EnergyKWh
		points = append(points, Point{Start: b.HourStart, State: b.EnergyKWh, Sum: running})
	}
	return points, nil
}

// Merge plans and writes. Metadata is only registered when there is
// something to write, and the store writes all points or none, so a failed
// cycle never leaves a half-applied cumulative series. Returns the number of
// points written.
func (m *Merger) Merge(ctx context.Context, meta Metadata, hourly []usage.HourlyBucket) (int, error) {
	points, err := m.Plan(ctx, meta.StatisticID, hourly)
	if err != nil {
		return 0, err
	}
	if len(points) == 0 {
		return 0, nil
	}
	if err := m.store.EnsureMetadata(ctx, meta); err != nil {
		return 0, err
	}
	if err := m.store.Upsert(ctx, meta.StatisticID, points); err != nil {
		return 0, err
	}
	return len(points), nil
}
