package application

import (
	"time"

	usage "dominion-bridge/internal/usage/domain"
)

// Result carries the outputs of one transform run.
type Result struct {
	// Readings is the joined half-hour series, entity-facing.
	Readings []usage.LocalizedReading
	// Hourly is the aggregated series consumed by the statistics merger.
	Hourly []usage.HourlyBucket
	// DroppedReadings counts interval readings lost to spring-forward gaps
	// across both tables. Non-zero is a diagnosable condition, not a failure.
	DroppedReadings int
	// TrimmedDays counts trailing incomplete days removed before reshaping.
	TrimmedDays int
}

// Processor runs the usage transform chain on one raw export: trim the
// incomplete trailing day, reshape each table to long format, resolve DST,
// join power with energy, aggregate hourly. The chain holds no state across
// runs.
type Processor struct {
	loc    *time.Location
	policy usage.DSTPolicy
}

// NewProcessor constructs a Processor for the given target timezone.
func NewProcessor(loc *time.Location, policy usage.DSTPolicy) *Processor {
	return &Processor{loc: loc, policy: policy}
}

// Run executes the chain. Any returned error is fatal for the cycle.
func (p *Processor) Run(raw usage.RawUsage) (Result, error) {
	powerTable, powerTrimmed := usage.TrimIncompleteTail(raw.Power)
	energyTable, energyTrimmed := usage.TrimIncompleteTail(raw.Energy)

	powerLong, err := usage.Reshape(powerTable)
	if err != nil {
		return Result{}, err
	}
	energyLong, err := usage.Reshape(energyTable)
	if err != nil {
		return Result{}, err
	}

	powerResolved, powerDropped := usage.ResolveDST(powerLong, p.loc, p.policy)
	energyResolved, energyDropped := usage.ResolveDST(energyLong, p.loc, p.policy)

	readings := usage.Join(powerResolved, energyResolved)
	hourly, err := usage.AggregateHourly(readings)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Readings:        readings,
		Hourly:          hourly,
		DroppedReadings: powerDropped + energyDropped,
	}
	if powerTrimmed {
		result.TrimmedDays++
	}
	if energyTrimmed {
		result.TrimmedDays++
	}
	return result, nil
}
