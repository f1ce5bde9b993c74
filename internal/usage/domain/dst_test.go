package usage

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestResolveDST_FallBackKeepsEarliest(t *testing.T) {
	loc := newYork(t)
	// 2024-11-03 01:30 occurs twice in New York: once at UTC-4, once at UTC-5.
	naive := []IntervalReading{
		{Timestamp: time.Date(2024, 11, 3, 1, 30, 0, 0, time.UTC), Value: 0.5},
	}

	resolved, dropped := ResolveDST(naive, loc, ResolveEarliest)
	assert.Zero(t, dropped)
	require.Len(t, resolved, 1)

	got := resolved[0].Timestamp
	assert.Equal(t, 1, got.Hour())
	assert.Equal(t, 30, got.Minute())
	_, offset := got.Zone()
	assert.Equal(t, -4*3600, offset)
	assert.True(t, got.Equal(time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC)))
}

func TestResolveDST_FallBackLatestPolicy(t *testing.T) {
	loc := newYork(t)
	naive := []IntervalReading{
		{Timestamp: time.Date(2024, 11, 3, 1, 30, 0, 0, time.UTC), Value: 0.5},
	}

	resolved, dropped := ResolveDST(naive, loc, ResolveLatest)
	assert.Zero(t, dropped)
	require.Len(t, resolved, 1)

	_, offset := resolved[0].Timestamp.Zone()
	assert.Equal(t, -5*3600, offset)
	assert.True(t, resolved[0].Timestamp.Equal(time.Date(2024, 11, 3, 6, 30, 0, 0, time.UTC)))
}

func TestResolveDST_SpringForwardDrops(t *testing.T) {
	loc := newYork(t)
	// 2025-03-09 02:00-02:59 never happens in New York.
	naive := []IntervalReading{
		{Timestamp: time.Date(2025, 3, 9, 1, 30, 0, 0, time.UTC), Value: 0.1},
		{Timestamp: time.Date(2025, 3, 9, 2, 0, 0, 0, time.UTC), Value: 0.2},
		{Timestamp: time.Date(2025, 3, 9, 2, 30, 0, 0, time.UTC), Value: 0.3},
		{Timestamp: time.Date(2025, 3, 9, 3, 0, 0, 0, time.UTC), Value: 0.4},
	}

	resolved, dropped := ResolveDST(naive, loc, ResolveEarliest)
	assert.Equal(t, 2, dropped)
	require.Len(t, resolved, 2)
	assert.Equal(t, 0.1, resolved[0].Value)
	assert.Equal(t, 0.4, resolved[1].Value)
}

func TestResolveDST_PlainDayPassesThrough(t *testing.T) {
	loc := newYork(t)
	naive := make([]IntervalReading, 0, 48)
	base := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 48; i++ {
		naive = append(naive, IntervalReading{
			Timestamp: base.Add(time.Duration(i) * 30 * time.Minute),
			Value:     float64(i),
		})
	}

	resolved, dropped := ResolveDST(naive, loc, ResolveEarliest)
	assert.Zero(t, dropped)
	require.Len(t, resolved, 48)
	for i, r := range resolved {
		assert.Equal(t, naive[i].Timestamp.Hour(), r.Timestamp.Hour())
		assert.Equal(t, naive[i].Timestamp.Minute(), r.Timestamp.Minute())
		_, offset := r.Timestamp.Zone()
		assert.Equal(t, -4*3600, offset)
	}
}
