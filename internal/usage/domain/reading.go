package usage

import "time"

// IntervalReading is one half-hour value in long format. Timestamp is naive:
// it carries the export's wall-clock fields (constructed in UTC) and gains a
// real timezone identity only once ResolveDST has run.
type IntervalReading struct {
	Timestamp time.Time
	Value     float64
}

// LocalizedReading pairs power and energy for one timezone-aware instant.
type LocalizedReading struct {
	Timestamp time.Time `json:"timestamp"`
	PowerKW   float64   `json:"power_kw"`
	EnergyKWh float64   `json:"energy_kwh"`
}

// HourlyBucket aggregates the readings that share one local hour: power by
// mean, energy by sum.
type HourlyBucket struct {
	HourStart time.Time `json:"hour_start"`
	PowerKW   float64   `json:"power_kw"`
	EnergyKWh float64   `json:"energy_kwh"`
}
