package usage

import "errors"

var (
	// ErrDataSource is returned when the raw export is missing or malformed. Fatal to the run.
	ErrDataSource = errors.New("usage: data source")
	// ErrTransform is returned when a column label or timestamp cannot be parsed. Fatal to the run.
	ErrTransform = errors.New("usage: transform")
	// ErrConsistency is returned when hourly aggregation fails the energy conservation check. Fatal to the run.
	ErrConsistency = errors.New("usage: consistency")
)
