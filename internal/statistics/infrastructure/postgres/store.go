package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	statistics "dominion-bridge/internal/statistics/domain"
)

const (
	defaultPointsTable = "statistics"
	defaultMetaTable   = "statistics_meta"
)

// SeriesStore is a Postgres-backed statistics store. The last writer for a
// given (statistic_id, start) wins; callers must not interleave concurrent
// merges for the same key.
type SeriesStore struct {
	db          *sql.DB
	pointsTable string
	metaTable   string
}

// StoreOption configures the store.
type StoreOption func(*SeriesStore)

// WithTables overrides the default table names.
func WithTables(points, meta string) StoreOption {
	return func(s *SeriesStore) {
		if points != "" {
			s.pointsTable = points
		}
		if meta != "" {
			s.metaTable = meta
		}
	}
}

// NewSeriesStore creates a store using the default table names.
func NewSeriesStore(db *sql.DB, opts ...StoreOption) *SeriesStore {
	store := &SeriesStore{
		db:          db,
		pointsTable: defaultPointsTable,
		metaTable:   defaultMetaTable,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// EnsureSchema creates the statistics tables when they do not exist yet.
func (s *SeriesStore) EnsureSchema(ctx context.Context) error {
	metaDDL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	statistic_id TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	unit TEXT NOT NULL,
	has_sum BOOLEAN NOT NULL,
	has_mean BOOLEAN NOT NULL,
	source TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, s.metaTable)

	pointsDDL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	statistic_id TEXT NOT NULL,
	start TIMESTAMPTZ NOT NULL,
	state DOUBLE PRECISION NOT NULL,
	sum DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (statistic_id, start)
)`, s.pointsTable)

	if _, err := s.db.ExecContext(ctx, metaDDL); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, pointsDDL)
	return err
}

// EnsureMetadata upserts series metadata.
func (s *SeriesStore) EnsureMetadata(ctx context.Context, meta statistics.Metadata) error {
	if meta.StatisticID == "" {
		return statistics.ErrEmptyStatisticID
	}

	query := fmt.Sprintf(`
INSERT INTO %s (statistic_id, display_name, unit, has_sum, has_mean, source)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (statistic_id)
DO UPDATE SET
	display_name = EXCLUDED.display_name,
	unit = EXCLUDED.unit,
	has_sum = EXCLUDED.has_sum,
	has_mean = EXCLUDED.has_mean,
	source = EXCLUDED.source,
	updated_at = NOW()`, s.metaTable)

	_, err := s.db.ExecContext(ctx, query,
		meta.StatisticID, meta.DisplayName, meta.Unit, meta.HasSum, meta.HasMean, meta.Source)
	return err
}

// LastPoint fetches the most recent point for a key, or nil when the series
// is empty.
func (s *SeriesStore) LastPoint(ctx context.Context, statisticID string) (*statistics.Point, error) {
	if statisticID == "" {
		return nil, statistics.ErrEmptyStatisticID
	}

	query := fmt.Sprintf(`
SELECT start, state, sum
FROM %s
WHERE statistic_id = $1
ORDER BY start DESC
LIMIT 1`, s.pointsTable)

	var point statistics.Point
	err := s.db.QueryRowContext(ctx, query, statisticID).Scan(&point.Start, &point.State, &point.Sum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &point, nil
}

// SumBefore fetches the last known cumulative sum at or before the instant.
func (s *SeriesStore) SumBefore(ctx context.Context, statisticID string, at time.Time) (float64, bool, error) {
	if statisticID == "" {
		return 0, false, statistics.ErrEmptyStatisticID
	}

	query := fmt.Sprintf(`
SELECT sum
FROM %s
WHERE statistic_id = $1
	AND start <= $2
ORDER BY start DESC
LIMIT 1`, s.pointsTable)

	var sum float64
	err := s.db.QueryRowContext(ctx, query, statisticID, at).Scan(&sum)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return sum, true, nil
}

// Upsert writes all points in one transaction. A point that shares a start
// instant with an existing one replaces it.
func (s *SeriesStore) Upsert(ctx context.Context, statisticID string, points []statistics.Point) error {
	if statisticID == "" {
		return statistics.ErrEmptyStatisticID
	}
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
INSERT INTO %s (statistic_id, start, state, sum)
VALUES ($1, $2, $3, $4)
ON CONFLICT (statistic_id, start)
DO UPDATE SET
	state = EXCLUDED.state,
	sum = EXCLUDED.sum,
	updated_at = NOW()`, s.pointsTable)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, statisticID, p.Start, p.State, p.Sum); err != nil {
			return err
		}
	}
	return tx.Commit()
}
