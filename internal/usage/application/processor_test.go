package application

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usage "dominion-bridge/internal/usage/domain"
)

// halfHourLabels builds the 48 half-hour column labels of one export sheet.
func halfHourLabels(unit string) []string {
	labels := make([]string, 0, 48)
	for i := 0; i < 48; i++ {
		at := time.Date(2025, 1, 1, i/2, (i%2)*30, 0, 0, time.UTC)
		labels = append(labels, at.Format("3:04 PM")+" "+unit)
	}
	return labels
}

func constantRow(date time.Time, n int, v float64) usage.WideRow {
	values := make([]float64, n)
	var total float64
	for i := range values {
		values[i] = v
		total += v
	}
	return usage.WideRow{Date: date, Values: values, Total: total}
}

func TestProcessor_EndToEnd(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	// Day 2 has a zeroed afternoon: the export ran before the day finished.
	partialDay := usage.WideRow{Date: day2, Values: make([]float64, 48)}
	for i := 0; i < 24; i++ {
		partialDay.Values[i] = 0.3
	}

	raw := usage.RawUsage{
		Power: usage.WideTable{
			Columns: halfHourLabels("kW"),
			Rows:    []usage.WideRow{constantRow(day1, 48, 1.5), partialDay},
		},
		Energy: usage.WideTable{
			Columns: halfHourLabels("kWH"),
			Rows:    []usage.WideRow{constantRow(day1, 48, 0.75), partialDay},
		},
	}

	result, err := NewProcessor(loc, usage.ResolveEarliest).Run(raw)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TrimmedDays)
	assert.Zero(t, result.DroppedReadings)
	require.Len(t, result.Readings, 48)
	require.Len(t, result.Hourly, 24)

	var intervalSum, hourlySum float64
	for _, r := range result.Readings {
		assert.Equal(t, loc.String(), r.Timestamp.Location().String())
		intervalSum += r.EnergyKWh
	}
	for i, b := range result.Hourly {
		hourlySum += b.EnergyKWh
		assert.InDelta(t, 1.5, b.PowerKW, 1e-9)
		assert.InDelta(t, 1.5, b.EnergyKWh, 1e-9)
		if i > 0 {
			assert.True(t, result.Hourly[i-1].HourStart.Before(b.HourStart))
		}
	}
	assert.InDelta(t, intervalSum, hourlySum, usage.EnergyToleranceKWh)
}

func TestProcessor_SpringForwardDayDropsSkippedHour(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	raw := usage.RawUsage{
		Power: usage.WideTable{
			Columns: halfHourLabels("kW"),
			Rows:    []usage.WideRow{constantRow(day, 48, 1.0)},
		},
		Energy: usage.WideTable{
			Columns: halfHourLabels("kWH"),
			Rows:    []usage.WideRow{constantRow(day, 48, 0.5)},
		},
	}

	result, err := NewProcessor(loc, usage.ResolveEarliest).Run(raw)
	require.NoError(t, err)

	// 2:00 and 2:30 never happened, in both tables.
	assert.Equal(t, 4, result.DroppedReadings)
	assert.Len(t, result.Readings, 46)
	assert.Len(t, result.Hourly, 23)
}

func TestProcessor_ReshapeFailureIsFatal(t *testing.T) {
	raw := usage.RawUsage{
		Power:  usage.WideTable{Columns: []string{"bogus"}, Rows: []usage.WideRow{{Date: time.Now(), Values: []float64{1}}}},
		Energy: usage.WideTable{Columns: halfHourLabels("kWH")},
	}

	_, err := NewProcessor(time.UTC, usage.ResolveEarliest).Run(raw)
	assert.ErrorIs(t, err, usage.ErrTransform)
}
