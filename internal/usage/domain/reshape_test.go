package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReshape_LongFormatSortedAscending(t *testing.T) {
	table := WideTable{
		Columns: []string{"12:30 AM kW", "12:00 AM kW"},
		Rows: []WideRow{
			{Date: day(2025, 6, 2), Values: []float64{0.4, 0.3}},
			{Date: day(2025, 6, 1), Values: []float64{0.2, 0.1}},
		},
	}

	readings, err := Reshape(table)
	require.NoError(t, err)
	require.Len(t, readings, 4)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), readings[0].Timestamp)
	assert.Equal(t, 0.1, readings[0].Value)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 30, 0, 0, time.UTC), readings[1].Timestamp)
	assert.Equal(t, 0.2, readings[1].Value)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), readings[2].Timestamp)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 30, 0, 0, time.UTC), readings[3].Timestamp)
}

func TestReshape_TwelveHourClock(t *testing.T) {
	table := WideTable{
		Columns: []string{"12:00 AM kWH", "1:30 PM kWH", "11:30 PM kWH"},
		Rows: []WideRow{
			{Date: day(2025, 6, 1), Values: []float64{1, 2, 3}},
		},
	}

	readings, err := Reshape(table)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, 0, readings[0].Timestamp.Hour())
	assert.Equal(t, 13, readings[1].Timestamp.Hour())
	assert.Equal(t, 30, readings[1].Timestamp.Minute())
	assert.Equal(t, 23, readings[2].Timestamp.Hour())
}

func TestReshape_UnparsableLabel(t *testing.T) {
	table := WideTable{
		Columns: []string{"Total"},
		Rows:    []WideRow{{Date: day(2025, 6, 1), Values: []float64{1}}},
	}

	_, err := Reshape(table)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransform)
}

func TestReshape_NoColumns(t *testing.T) {
	_, err := Reshape(WideTable{})
	assert.ErrorIs(t, err, ErrTransform)
}
