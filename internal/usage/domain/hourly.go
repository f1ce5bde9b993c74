package usage

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// EnergyToleranceKWh is the absolute tolerance for the conservation check:
// hourly aggregation must preserve total energy within this bound.
const EnergyToleranceKWh = 0.001

// AggregateHourly buckets half-hour readings into local hours, combining
// power by mean and energy by sum, then verifies that total energy survived
// the aggregation. A tolerance breach returns ErrConsistency rather than a
// warning: silent energy loss would corrupt every downstream cumulative sum.
// Output is sorted by hour start ascending.
func AggregateHourly(readings []LocalizedReading) ([]HourlyBucket, error) {
	type group struct {
		start  time.Time
		power  float64
		energy float64
		count  int
	}

	groups := make(map[int64]*group)
	for _, r := range readings {
		start := FloorToHour(r.Timestamp)
		key := start.Unix()
		g := groups[key]
		if g == nil {
			g = &group{start: start}
			groups[key] = g
		}
		g.power += r.PowerKW
		g.energy += r.EnergyKWh
		g.count++
	}

	buckets := make([]HourlyBucket, 0, len(groups))
	for _, g := range groups {
		buckets = append(buckets, HourlyBucket{
			HourStart: g.start,
			PowerKW:   g.power / float64(g.count),
			EnergyKWh: g.energy,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].HourStart.Before(buckets[j].HourStart)
	})

	if err := checkConservation(readings, buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// FloorToHour truncates an instant to the start of its local hour. Truncation
// happens on wall-clock fields, not on the epoch, so hours stay aligned in
// zones with non-whole-hour offsets.
func FloorToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

func checkConservation(readings []LocalizedReading, buckets []HourlyBucket) error {
	var before, after float64
	for _, r := range readings {
		before += r.EnergyKWh
	}
	for _, b := range buckets {
		after += b.EnergyKWh
	}
	if math.Abs(before-after) > EnergyToleranceKWh {
		return fmt.Errorf("%w: energy sum mismatch after hourly aggregation: intervals %.3f kWh, hourly %.3f kWh",
			ErrConsistency, before, after)
	}
	return nil
}
