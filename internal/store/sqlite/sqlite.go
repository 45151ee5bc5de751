// Package sqlite implements the record store on SQLite via modernc.org/sqlite,
// for single-node deployments and local development without Postgres.
//
// SQLite has no native timestamp or array types: created_at is stored as an
// RFC3339Nano string and percentiles as a JSON-encoded text column.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"csvprofiler/internal/analysis"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id                TEXT PRIMARY KEY,
	content_hash      TEXT NOT NULL UNIQUE,
	original_data     TEXT NOT NULL,
	number_of_rows    INTEGER NOT NULL,
	number_of_columns INTEGER NOT NULL,
	total_characters  INTEGER NOT NULL,
	created_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analysis_columns (
	analysis_id        TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
	position           INTEGER NOT NULL,
	column_name        TEXT NOT NULL,
	null_count         INTEGER NOT NULL,
	unique_count       INTEGER NOT NULL,
	is_numeric         INTEGER NOT NULL,
	min_value          REAL,
	max_value          REAL,
	mean_value         REAL,
	median_value       REAL,
	standard_deviation REAL,
	percentiles        TEXT,
	PRIMARY KEY (analysis_id, position)
);
`

// Store is a SQLite-backed record store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for an
// ephemeral store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

// Init creates the schema if it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) (*analysis.Record, error) {
	return s.findOne(ctx, "content_hash = ?", fingerprint)
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*analysis.Record, error) {
	return s.findOne(ctx, "id = ?", id.String())
}

func (s *Store) findOne(ctx context.Context, where string, arg any) (*analysis.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, content_hash, original_data, number_of_rows, number_of_columns, total_characters, created_at
		FROM analyses WHERE `+where, arg)

	rec := &analysis.Record{}
	var id, createdAt string
	err := row.Scan(&id, &rec.Fingerprint, &rec.OriginalData,
		&rec.NumberOfRows, &rec.NumberOfColumns, &rec.TotalCharacters, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select analysis: %w", err)
	}
	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse id %q: %w", id, err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	cols, err := s.loadColumns(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Columns = cols
	return rec, nil
}

func (s *Store) loadColumns(ctx context.Context, id string) ([]analysis.ColumnStatistics, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT column_name, null_count, unique_count, is_numeric,
		       min_value, max_value, mean_value, median_value, standard_deviation, percentiles
		FROM analysis_columns WHERE analysis_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("select columns: %w", err)
	}
	defer rows.Close()

	var cols []analysis.ColumnStatistics
	for rows.Next() {
		var c analysis.ColumnStatistics
		var percentiles sql.NullString
		if err := rows.Scan(&c.ColumnName, &c.NullCount, &c.UniqueCount, &c.IsNumeric,
			&c.MinValue, &c.MaxValue, &c.MeanValue, &c.MedianValue,
			&c.StandardDeviation, &percentiles); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		if percentiles.Valid {
			if err := json.Unmarshal([]byte(percentiles.String), &c.Percentiles); err != nil {
				return nil, fmt.Errorf("decode percentiles: %w", err)
			}
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	return cols, nil
}

// Save persists the record under a fresh identifier. When the fingerprint is
// already present the insert is ignored and the existing record is returned,
// matching the Postgres backend's duplicate-create behavior.
func (s *Store) Save(ctx context.Context, rec *analysis.Record) (*analysis.Record, error) {
	id := uuid.New()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO analyses (id, content_hash, original_data, number_of_rows, number_of_columns, total_characters, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_hash) DO NOTHING`,
		id.String(), rec.Fingerprint, rec.OriginalData,
		rec.NumberOfRows, rec.NumberOfColumns, rec.TotalCharacters,
		rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return s.FindByFingerprint(ctx, rec.Fingerprint)
	}

	for i, c := range rec.Columns {
		var percentiles any
		if c.Percentiles != nil {
			encoded, err := json.Marshal(c.Percentiles)
			if err != nil {
				return nil, fmt.Errorf("encode percentiles: %w", err)
			}
			percentiles = string(encoded)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO analysis_columns
				(analysis_id, position, column_name, null_count, unique_count, is_numeric,
				 min_value, max_value, mean_value, median_value, standard_deviation, percentiles)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id.String(), i, c.ColumnName, c.NullCount, c.UniqueCount, c.IsNumeric,
			c.MinValue, c.MaxValue, c.MeanValue, c.MedianValue, c.StandardDeviation, percentiles); err != nil {
			return nil, fmt.Errorf("insert column %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	stored := *rec
	stored.ID = id
	return &stored, nil
}

func (s *Store) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete analysis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
