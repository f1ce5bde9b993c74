package integration_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	statistics "dominion-bridge/internal/statistics/domain"
	statspostgres "dominion-bridge/internal/statistics/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestSeriesStore_Postgres(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	store := statspostgres.NewSeriesStore(db, statspostgres.WithTables("statistics_it", "statistics_meta_it"))
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	key := statistics.ConsumptionStatisticID("it-account")
	_, _ = db.ExecContext(ctx, "DELETE FROM statistics_it WHERE statistic_id = $1", key)
	_, _ = db.ExecContext(ctx, "DELETE FROM statistics_meta_it WHERE statistic_id = $1", key)

	if err := store.EnsureMetadata(ctx, statistics.ConsumptionMetadata("it-account")); err != nil {
		t.Fatalf("ensure metadata: %v", err)
	}

	t0 := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	points := []statistics.Point{
		{Start: t0, State: 1.0, Sum: 1.0},
		{Start: t0.Add(time.Hour), State: 2.0, Sum: 3.0},
	}
	if err := store.Upsert(ctx, key, points); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	last, err := store.LastPoint(ctx, key)
	if err != nil {
		t.Fatalf("last point: %v", err)
	}
	if last == nil || !last.Start.Equal(t0.Add(time.Hour)) {
		t.Fatalf("unexpected last point: %+v", last)
	}

	// Re-upsert replaces, not duplicates.
	if err := store.Upsert(ctx, key, []statistics.Point{{Start: t0.Add(time.Hour), State: 2.5, Sum: 3.5}}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM statistics_it WHERE statistic_id = $1", key).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows, got %d", count)
	}

	sum, ok, err := store.SumBefore(ctx, key, t0.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("sum before: %v", err)
	}
	if !ok || sum != 1.0 {
		t.Fatalf("expected baseline 1.0, got %v ok=%v", sum, ok)
	}
}
