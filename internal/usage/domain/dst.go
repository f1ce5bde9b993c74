package usage

import (
	"sort"
	"time"
)

// DSTPolicy controls how an ambiguous wall-clock time (fall-back repeat)
// resolves.
type DSTPolicy int

const (
	// ResolveEarliest keeps the first occurrence of a repeated hour.
	ResolveEarliest DSTPolicy = iota
	// ResolveLatest keeps the second occurrence.
	ResolveLatest
)

// ResolveDST attaches a timezone identity to naive interval readings.
// Ambiguous wall times resolve per policy. Wall times skipped by a
// spring-forward transition are dropped, never shifted or null-filled; the
// dropped count is returned so callers can surface it as a diagnostic.
func ResolveDST(readings []IntervalReading, loc *time.Location, policy DSTPolicy) ([]IntervalReading, int) {
	resolved := make([]IntervalReading, 0, len(readings))
	dropped := 0
	for _, r := range readings {
		instant, ok := resolveWall(r.Timestamp, loc, policy)
		if !ok {
			dropped++
			continue
		}
		resolved = append(resolved, IntervalReading{Timestamp: instant, Value: r.Value})
	}
	return resolved, dropped
}

// resolveWall maps naive wall-clock fields onto the location's offset
// history. It probes the offsets in effect around the target and keeps every
// offset that round-trips to the same wall clock: zero surviving candidates
// is a spring-forward gap, two is a fall-back repeat.
func resolveWall(naive time.Time, loc *time.Location, policy DSTPolicy) (time.Time, bool) {
	// The naive value carries wall fields as a UTC instant, which lands
	// within a day of the real instant for any civil offset.
	offsets := make([]int, 0, 3)
	for _, d := range []time.Duration{-30 * time.Hour, 0, 30 * time.Hour} {
		_, off := naive.Add(d).In(loc).Zone()
		if !containsInt(offsets, off) {
			offsets = append(offsets, off)
		}
	}

	var candidates []time.Time
	for _, off := range offsets {
		cand := naive.Add(-time.Duration(off) * time.Second).In(loc)
		if sameWall(cand, naive) {
			candidates = append(candidates, cand)
		}
	}
	if len(candidates) == 0 {
		return time.Time{}, false
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })
	if policy == ResolveLatest {
		return candidates[len(candidates)-1], true
	}
	return candidates[0], true
}

func sameWall(t, naive time.Time) bool {
	return t.Year() == naive.Year() &&
		t.Month() == naive.Month() &&
		t.Day() == naive.Day() &&
		t.Hour() == naive.Hour() &&
		t.Minute() == naive.Minute()
}

func containsInt(values []int, v int) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
