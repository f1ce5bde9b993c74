package statistics

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Source identifies this bridge in the external statistics store.
const Source = "dominion_energy"

var (
	// ErrEmptyStatisticID is returned when a series key is empty.
	ErrEmptyStatisticID = errors.New("statistics: empty statistic id")
	// ErrNilStore is returned when a merger is built without a store.
	ErrNilStore = errors.New("statistics: nil store")
)

// Point is one persisted statistic point: State is the value for that hour,
// Sum is the cumulative total up to and including this point.
type Point struct {
	Start time.Time
	State float64
	Sum   float64
}

// Metadata describes a statistic series. It is registered once per key.
type Metadata struct {
	StatisticID string
	DisplayName string
	Unit        string
	HasSum      bool
	HasMean     bool
	Source      string
}

// SeriesStore is the external long-term statistics store. Upserting a point
// for an already-written start instant replaces it; the pipeline never
// deletes points or touches anything outside the correction window.
type SeriesStore interface {
	EnsureMetadata(ctx context.Context, meta Metadata) error
	// LastPoint returns the most recent point for the key, or nil when the
	// series is empty.
	LastPoint(ctx context.Context, statisticID string) (*Point, error)
	// SumBefore returns the last known cumulative sum at or before the given
	// instant. The boolean reports whether any such point exists.
	SumBefore(ctx context.Context, statisticID string, at time.Time) (float64, bool, error)
	// Upsert writes all points or none of them.
	Upsert(ctx context.Context, statisticID string, points []Point) error
}

// ConsumptionStatisticID builds the stable series key for an account's
// energy consumption.
func ConsumptionStatisticID(account string) string {
	return fmt.Sprintf("%s:%s_energy_consumption", Source, account)
}

// ConsumptionMetadata builds the metadata registered for an account's
// consumption series.
func ConsumptionMetadata(account string) Metadata {
	return Metadata{
		StatisticID: ConsumptionStatisticID(account),
		DisplayName: fmt.Sprintf("Dominion Energy %s Energy Consumption", account),
		Unit:        "kWh",
		HasSum:      true,
		HasMean:     false,
		Source:      Source,
	}
}
