// Package memory provides an in-memory record store, used for tests and for
// running the server without a database.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"csvprofiler/internal/analysis"
)

// Store keeps records in process memory, indexed by id and by fingerprint.
type Store struct {
	mu            sync.RWMutex
	byID          map[uuid.UUID]*analysis.Record
	byFingerprint map[string]uuid.UUID
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		byID:          make(map[uuid.UUID]*analysis.Record),
		byFingerprint: make(map[string]uuid.UUID),
	}
}

func (s *Store) FindByFingerprint(_ context.Context, fingerprint string) (*analysis.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byFingerprint[fingerprint]
	if !ok {
		return nil, nil
	}
	return cloneRecord(s.byID[id]), nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*analysis.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

// Save stores the record under a fresh identifier. If a racing call already
// persisted the same fingerprint, the existing record is returned instead of
// creating a duplicate.
func (s *Store) Save(_ context.Context, rec *analysis.Record) (*analysis.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byFingerprint[rec.Fingerprint]; ok {
		return cloneRecord(s.byID[id]), nil
	}

	stored := cloneRecord(rec)
	stored.ID = uuid.New()
	s.byID[stored.ID] = stored
	s.byFingerprint[stored.Fingerprint] = stored.ID
	return cloneRecord(stored), nil
}

func (s *Store) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	delete(s.byID, id)
	delete(s.byFingerprint, rec.Fingerprint)
	return true, nil
}

// cloneRecord copies a record so callers never alias the store's state.
func cloneRecord(rec *analysis.Record) *analysis.Record {
	out := *rec
	out.Columns = make([]analysis.ColumnStatistics, len(rec.Columns))
	copy(out.Columns, rec.Columns)
	return &out
}
