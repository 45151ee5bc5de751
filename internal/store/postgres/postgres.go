// Package postgres implements the record store on PostgreSQL via pgx.
//
// Duplicate-create races between identical submissions are resolved here: the
// analyses table carries a unique constraint on the content fingerprint and
// Save inserts with ON CONFLICT DO NOTHING, returning the winning record.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"csvprofiler/internal/analysis"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id                UUID PRIMARY KEY,
	content_hash      TEXT NOT NULL UNIQUE,
	original_data     TEXT NOT NULL,
	number_of_rows    INTEGER NOT NULL,
	number_of_columns INTEGER NOT NULL,
	total_characters  BIGINT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_columns (
	analysis_id        UUID NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
	position           INTEGER NOT NULL,
	column_name        TEXT NOT NULL,
	null_count         INTEGER NOT NULL,
	unique_count       INTEGER NOT NULL,
	is_numeric         BOOLEAN NOT NULL,
	min_value          DOUBLE PRECISION,
	max_value          DOUBLE PRECISION,
	mean_value         DOUBLE PRECISION,
	median_value       DOUBLE PRECISION,
	standard_deviation DOUBLE PRECISION,
	percentiles        DOUBLE PRECISION[],
	PRIMARY KEY (analysis_id, position)
);
`

// Store is a PostgreSQL-backed record store.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Init creates the schema if it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) (*analysis.Record, error) {
	return s.findOne(ctx, "content_hash = $1", fingerprint)
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*analysis.Record, error) {
	return s.findOne(ctx, "id = $1", id)
}

func (s *Store) findOne(ctx context.Context, where string, arg any) (*analysis.Record, error) {
	rec := &analysis.Record{}
	row := s.pool.QueryRow(ctx, `
		SELECT id, content_hash, original_data, number_of_rows, number_of_columns, total_characters, created_at
		FROM analyses WHERE `+where, arg)
	err := row.Scan(&rec.ID, &rec.Fingerprint, &rec.OriginalData,
		&rec.NumberOfRows, &rec.NumberOfColumns, &rec.TotalCharacters, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select analysis: %w", err)
	}

	cols, err := s.loadColumns(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Columns = cols
	return rec, nil
}

func (s *Store) loadColumns(ctx context.Context, id uuid.UUID) ([]analysis.ColumnStatistics, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT column_name, null_count, unique_count, is_numeric,
		       min_value, max_value, mean_value, median_value, standard_deviation, percentiles
		FROM analysis_columns WHERE analysis_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("select columns: %w", err)
	}
	defer rows.Close()

	var cols []analysis.ColumnStatistics
	for rows.Next() {
		var c analysis.ColumnStatistics
		if err := rows.Scan(&c.ColumnName, &c.NullCount, &c.UniqueCount, &c.IsNumeric,
			&c.MinValue, &c.MaxValue, &c.MeanValue, &c.MedianValue,
			&c.StandardDeviation, &c.Percentiles); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	return cols, nil
}

// Save persists the record under a fresh identifier. When a concurrent call
// already stored the same fingerprint, the insert is a no-op and the existing
// record is returned.
func (s *Store) Save(ctx context.Context, rec *analysis.Record) (*analysis.Record, error) {
	id := uuid.New()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		INSERT INTO analyses (id, content_hash, original_data, number_of_rows, number_of_columns, total_characters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (content_hash) DO NOTHING`,
		id, rec.Fingerprint, rec.OriginalData,
		rec.NumberOfRows, rec.NumberOfColumns, rec.TotalCharacters, rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		// Lost a duplicate-create race; the earlier record wins.
		return s.FindByFingerprint(ctx, rec.Fingerprint)
	}

	batch := &pgx.Batch{}
	for i, c := range rec.Columns {
		batch.Queue(`
			INSERT INTO analysis_columns
				(analysis_id, position, column_name, null_count, unique_count, is_numeric,
				 min_value, max_value, mean_value, median_value, standard_deviation, percentiles)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			id, i, c.ColumnName, c.NullCount, c.UniqueCount, c.IsNumeric,
			c.MinValue, c.MaxValue, c.MeanValue, c.MedianValue, c.StandardDeviation, c.Percentiles)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("insert columns: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	stored := *rec
	stored.ID = id
	return &stored, nil
}

func (s *Store) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete analysis: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
