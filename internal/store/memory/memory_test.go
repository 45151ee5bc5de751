package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvprofiler/internal/analysis"
)

func sampleRecord() *analysis.Record {
	mean := 2.0
	return &analysis.Record{
		Fingerprint:     "abc123",
		OriginalData:    "a\n1\n3\n",
		NumberOfRows:    2,
		NumberOfColumns: 1,
		TotalCharacters: 7,
		CreatedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Columns: []analysis.ColumnStatistics{{
			ColumnName:  "a",
			UniqueCount: 2,
			IsNumeric:   true,
			MeanValue:   &mean,
			Percentiles: []float64{1.5, 2, 2.5, 2.8, 2.9, 2.98},
		}},
	}
}

func TestSaveAssignsID(t *testing.T) {
	st := New()
	ctx := context.Background()

	saved, err := st.Save(ctx, sampleRecord())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
}

func TestSaveResolvesDuplicateFingerprint(t *testing.T) {
	st := New()
	ctx := context.Background()

	first, err := st.Save(ctx, sampleRecord())
	require.NoError(t, err)

	second, err := st.Save(ctx, sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "duplicate fingerprint must return the existing record")
}

func TestFindByFingerprint(t *testing.T) {
	st := New()
	ctx := context.Background()

	missing, err := st.FindByFingerprint(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	saved, err := st.Save(ctx, sampleRecord())
	require.NoError(t, err)

	found, err := st.FindByFingerprint(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, saved.Columns, found.Columns)
}

func TestFindByID(t *testing.T) {
	st := New()
	ctx := context.Background()

	saved, err := st.Save(ctx, sampleRecord())
	require.NoError(t, err)

	found, err := st.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, saved.Fingerprint, found.Fingerprint)

	missing, err := st.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFindReturnsCopies(t *testing.T) {
	st := New()
	ctx := context.Background()

	saved, err := st.Save(ctx, sampleRecord())
	require.NoError(t, err)

	got, err := st.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	got.Columns[0].ColumnName = "mutated"

	again, err := st.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Columns[0].ColumnName, "caller mutation must not leak into the store")
}

func TestDeleteByID(t *testing.T) {
	st := New()
	ctx := context.Background()

	saved, err := st.Save(ctx, sampleRecord())
	require.NoError(t, err)

	deleted, err := st.DeleteByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := st.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// Fingerprint index must be cleaned up too.
	byFp, err := st.FindByFingerprint(ctx, saved.Fingerprint)
	require.NoError(t, err)
	assert.Nil(t, byFp)

	deleted, err = st.DeleteByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
