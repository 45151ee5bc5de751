// Package analysis implements the CSV profiling engine: structural
// validation, per-column type inference and uniqueness/null tracking,
// descriptive statistics for numeric columns, and content-addressed
// deduplication of repeated submissions.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ColumnStatistics profiles one CSV column, ordered by header position.
// Statistical fields are pointers so that non-numeric columns serialize them
// as null rather than zero; Percentiles is absent (nil), not empty, for
// non-numeric columns.
type ColumnStatistics struct {
	ColumnName        string    `json:"columnName"`
	NullCount         int       `json:"nullCount"`
	UniqueCount       int       `json:"uniqueCount"`
	IsNumeric         bool      `json:"isNumeric"`
	MinValue          *float64  `json:"minValue"`
	MaxValue          *float64  `json:"maxValue"`
	MeanValue         *float64  `json:"meanValue"`
	MedianValue       *float64  `json:"medianValue"`
	StandardDeviation *float64  `json:"standardDeviation"`
	Percentiles       []float64 `json:"percentiles"`
}

// Result is the aggregate output of one profiling call. AlreadyExists
// reports whether the result was served from a fingerprint-matched prior
// computation rather than freshly computed.
type Result struct {
	ID               uuid.UUID          `json:"id"`
	NumberOfRows     int                `json:"numberOfRows"`
	NumberOfColumns  int                `json:"numberOfColumns"`
	TotalCharacters  int64              `json:"totalCharacters"`
	ColumnStatistics []ColumnStatistics `json:"columnStatistics"`
	CreatedAt        time.Time          `json:"createdAt"`
	AlreadyExists    bool               `json:"alreadyExists"`
}

// Config carries the engine's tunables. Tests override fields instead of
// relying on process-wide state.
type Config struct {
	// MaxPayloadBytes caps the raw input size.
	MaxPayloadBytes int64

	// MaxCellCount caps the projected cell count (data row candidates times
	// column count), checked before any per-cell work.
	MaxCellCount int

	// ForbiddenContent rejects any input containing this exact substring.
	// Empty disables the check.
	ForbiddenContent string

	// Percentiles are the breakpoints computed for numeric columns.
	Percentiles []float64
}

// DefaultConfig returns the engine defaults: 5 MiB payload, one million
// projected cells, and the 25/50/75/90/95/99 percentile breakpoints.
func DefaultConfig() Config {
	return Config{
		MaxPayloadBytes: 5 * 1024 * 1024,
		MaxCellCount:    1_000_000,
		Percentiles:     []float64{25, 50, 75, 90, 95, 99},
	}
}

// Analyzer orchestrates one profiling call: validate, fingerprint, then
// either serve the stored result or run the full pass and persist it. The
// engine is stateless; concurrent calls share nothing but the store.
type Analyzer struct {
	store Store
	cfg   Config
	now   func() time.Time
}

// New creates an Analyzer backed by the given record store.
func New(store Store, cfg Config) *Analyzer {
	if cfg.Percentiles == nil {
		cfg.Percentiles = DefaultConfig().Percentiles
	}
	return &Analyzer{store: store, cfg: cfg, now: time.Now}
}

// Profile validates and profiles one raw CSV blob.
//
// Validation order is fixed: structural validity, then the forbidden-content
// policy, then the size guards, all before the fingerprint is computed, so
// an oversized or forbidden payload is rejected without touching the store.
// Only then is the store consulted; a fingerprint hit short-circuits with the
// stored result verbatim and AlreadyExists set.
func (a *Analyzer) Profile(ctx context.Context, raw string) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidInput)
	}

	lines := splitLines(raw)
	header, err := parseHeader(lines)
	if err != nil {
		return nil, err
	}

	if a.cfg.ForbiddenContent != "" && strings.Contains(raw, a.cfg.ForbiddenContent) {
		return nil, fmt.Errorf("%w: input contains %q", ErrForbiddenContent, a.cfg.ForbiddenContent)
	}

	if int64(len(raw)) > a.cfg.MaxPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrPayloadTooLarge, len(raw), a.cfg.MaxPayloadBytes)
	}
	if projected := (len(lines) - 1) * len(header); projected > a.cfg.MaxCellCount {
		return nil, fmt.Errorf("%w: %d projected cells exceeds limit of %d", ErrPayloadTooLarge, projected, a.cfg.MaxCellCount)
	}

	fingerprint := Fingerprint(raw)

	existing, err := a.store.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if existing != nil {
		return resultFromRecord(existing, true), nil
	}

	accs := newAccumulators(header)
	rows, err := parseRows(lines, len(header), func(cells []string) {
		for i, cell := range cells {
			accs[i].observe(cell)
		}
	})
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnStatistics, len(accs))
	for i, acc := range accs {
		columns[i] = acc.finalize(a.cfg.Percentiles)
	}

	rec := &Record{
		Fingerprint:     fingerprint,
		OriginalData:    raw,
		NumberOfRows:    rows,
		NumberOfColumns: len(header),
		TotalCharacters: int64(utf8.RuneCountInString(raw)),
		CreatedAt:       a.now().UTC(),
		Columns:         columns,
	}

	saved, err := a.store.Save(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return resultFromRecord(saved, false), nil
}

// GetByID retrieves a previously stored analysis.
func (a *Analyzer) GetByID(ctx context.Context, id uuid.UUID) (*Result, error) {
	rec, err := a.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return resultFromRecord(rec, true), nil
}

// DeleteByID removes a stored analysis and its column statistics.
func (a *Analyzer) DeleteByID(ctx context.Context, id uuid.UUID) error {
	deleted, err := a.store.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func resultFromRecord(rec *Record, alreadyExists bool) *Result {
	return &Result{
		ID:               rec.ID,
		NumberOfRows:     rec.NumberOfRows,
		NumberOfColumns:  rec.NumberOfColumns,
		TotalCharacters:  rec.TotalCharacters,
		ColumnStatistics: rec.Columns,
		CreatedAt:        rec.CreatedAt,
		AlreadyExists:    alreadyExists,
	}
}
