package usage

import (
	"strings"
	"time"
)

// WideTable is one sheet of the interval export: one row per calendar day,
// one column per half-hour time-of-day label.
type WideTable struct {
	// Columns holds the time-of-day labels in sheet order, e.g. "12:00 AM kW".
	Columns []string
	Rows    []WideRow
}

// WideRow is a single day of interval values. Values is parallel to the
// table's Columns. Date carries no time of day and no timezone identity.
type WideRow struct {
	Date   time.Time
	Values []float64
	Total  float64
}

// RawUsage holds the two sheets of one export cycle. The loader fails fast
// when either sheet is missing, so both tables are always populated.
type RawUsage struct {
	Power  WideTable
	Energy WideTable
}

// TrimIncompleteTail drops the latest day when all of its afternoon values
// are zero. The export may be generated while that day is still in progress,
// and a zeroed afternoon means the day has not completed. Keeping a partial
// day would leave unmatched half-hours for the hourly aggregation. Returns
// the possibly shortened table and whether a row was dropped.
func TrimIncompleteTail(t WideTable) (WideTable, bool) {
	if len(t.Rows) == 0 {
		return t, false
	}

	latest := t.Rows[0].Date
	for _, row := range t.Rows[1:] {
		if row.Date.After(latest) {
			latest = row.Date
		}
	}

	var afternoonSum float64
	for _, row := range t.Rows {
		if !row.Date.Equal(latest) {
			continue
		}
		for i, col := range t.Columns {
			if i >= len(row.Values) {
				break
			}
			if strings.Contains(col, " PM") {
				afternoonSum += row.Values[i]
			}
		}
	}
	if afternoonSum != 0 {
		return t, false
	}

	kept := make([]WideRow, 0, len(t.Rows)-1)
	for _, row := range t.Rows {
		if !row.Date.Equal(latest) {
			kept = append(kept, row)
		}
	}
	return WideTable{Columns: t.Columns, Rows: kept}, true
}
