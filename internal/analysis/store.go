package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is a persisted analysis: the assembled result plus the content
// fingerprint and the original raw text.
type Record struct {
	ID              uuid.UUID
	Fingerprint     string
	OriginalData    string
	NumberOfRows    int
	NumberOfColumns int
	TotalCharacters int64
	CreatedAt       time.Time
	Columns         []ColumnStatistics
}

// Store is the record store boundary the engine persists through. Lookups
// return (nil, nil) when no record matches; errors are reserved for
// infrastructure failures.
//
// Save assigns the record's identifier. Implementations must enforce
// at-most-one record per fingerprint: when a racing submission already
// persisted the same fingerprint, Save returns the existing record instead of
// creating a duplicate. The engine itself makes no guarantee about racing
// identical-content submissions beyond that.
type Store interface {
	FindByFingerprint(ctx context.Context, fingerprint string) (*Record, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Save(ctx context.Context, rec *Record) (*Record, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
}
