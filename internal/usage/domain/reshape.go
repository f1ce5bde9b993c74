package usage

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// timeOfDayPattern extracts the time of day from a column label, e.g.
// "12:30 AM" out of "12:30 AM kW".
var timeOfDayPattern = regexp.MustCompile(`\d{1,2}:\d{2} [AP]M`)

// timestampLayout combines a row date with a 12-hour-clock time of day.
const timestampLayout = "2006-01-02 3:04 PM"

// Reshape pivots a wide table into one IntervalReading per (day, time-of-day)
// pair, sorted ascending by timestamp. Column labels must contain an H:MM
// AM/PM time of day; trailing unit markers are ignored.
func Reshape(t WideTable) ([]IntervalReading, error) {
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("%w: no time-of-day columns", ErrTransform)
	}

	readings := make([]IntervalReading, 0, len(t.Rows)*len(t.Columns))
	for _, row := range t.Rows {
		day := row.Date.Format("2006-01-02")
		for i, col := range t.Columns {
			label := timeOfDayPattern.FindString(col)
			if label == "" {
				return nil, fmt.Errorf("%w: column %q has no time of day", ErrTransform, col)
			}
			ts, err := time.Parse(timestampLayout, day+" "+label)
			if err != nil {
				return nil, fmt.Errorf("%w: parse %q: %v", ErrTransform, day+" "+label, err)
			}
			var value float64
			if i < len(row.Values) {
				value = row.Values[i]
			}
			readings = append(readings, IntervalReading{Timestamp: ts, Value: value})
		}
	}

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings, nil
}
