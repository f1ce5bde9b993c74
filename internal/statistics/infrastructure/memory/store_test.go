package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	statistics "dominion-bridge/internal/statistics/domain"
)

func TestSeriesStore_UpsertReplacesByStart(t *testing.T) {
	store := NewSeriesStore()
	ctx := context.Background()
	key := statistics.ConsumptionStatisticID("acct")
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, key, []statistics.Point{
		{Start: t0, State: 1, Sum: 1},
		{Start: t0.Add(time.Hour), State: 2, Sum: 3},
	}))
	require.NoError(t, store.Upsert(ctx, key, []statistics.Point{
		{Start: t0.Add(time.Hour), State: 5, Sum: 6},
	}))

	points := store.Points(key)
	require.Len(t, points, 2)
	assert.InDelta(t, 5.0, points[1].State, 1e-9)
	assert.InDelta(t, 6.0, points[1].Sum, 1e-9)
}

func TestSeriesStore_LastPoint(t *testing.T) {
	store := NewSeriesStore()
	ctx := context.Background()
	key := statistics.ConsumptionStatisticID("acct")
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	last, err := store.LastPoint(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, store.Upsert(ctx, key, []statistics.Point{
		{Start: t0.Add(time.Hour), Sum: 3},
		{Start: t0, Sum: 1},
	}))

	last, err = store.LastPoint(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Start.Equal(t0.Add(time.Hour)))
}

func TestSeriesStore_SumBefore(t *testing.T) {
	store := NewSeriesStore()
	ctx := context.Background()
	key := statistics.ConsumptionStatisticID("acct")
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, key, []statistics.Point{
		{Start: t0, Sum: 1},
		{Start: t0.Add(2 * time.Hour), Sum: 4},
	}))

	sum, ok, err := store.SumBefore(ctx, key, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, sum, 1e-9)

	// Inclusive at the exact boundary.
	sum, ok, err = store.SumBefore(ctx, key, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, sum, 1e-9)

	_, ok, err = store.SumBefore(ctx, key, t0.Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeriesStore_Metadata(t *testing.T) {
	store := NewSeriesStore()
	meta := statistics.ConsumptionMetadata("acct")

	require.NoError(t, store.EnsureMetadata(context.Background(), meta))
	got, ok := store.Metadata(meta.StatisticID)
	require.True(t, ok)
	assert.Equal(t, meta, got)
}
