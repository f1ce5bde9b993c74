package usage

import "sort"

// Join inner-joins power and energy readings on exact timestamp equality.
// Readings present in only one series, for example dropped by DST resolution
// in only one table, are excluded: every emitted row carries both metrics
// for the same instant. Output is sorted ascending.
func Join(power, energy []IntervalReading) []LocalizedReading {
	energyAt := make(map[int64]float64, len(energy))
	for _, e := range energy {
		energyAt[e.Timestamp.Unix()] = e.Value
	}

	joined := make([]LocalizedReading, 0, len(power))
	for _, p := range power {
		kwh, ok := energyAt[p.Timestamp.Unix()]
		if !ok {
			continue
		}
		joined = append(joined, LocalizedReading{
			Timestamp: p.Timestamp,
			PowerKW:   p.Value,
			EnergyKWh: kwh,
		})
	}

	sort.Slice(joined, func(i, j int) bool {
		return joined[i].Timestamp.Before(joined[j].Timestamp)
	})
	return joined
}
