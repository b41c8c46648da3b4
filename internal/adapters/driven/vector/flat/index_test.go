package flat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func newTestIndex(t *testing.T, dim int) (*Index, string) {
	t.Helper()
	dir := t.TempDir()
	idx, err := New(dir, dim)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx, dir
}

func TestNew_InvalidArgs(t *testing.T) {
	_, err := New("", 3)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = New(t.TempDir(), 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAddAndSearch(t *testing.T) {
	idx, _ := newTestIndex(t, 3)
	ctx := context.Background()

	err := idx.Add(ctx,
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[]map[string]any{
			{"source": "a.txt", "chunk_index": 0},
			{"source": "a.txt", "chunk_index": 1},
			{"source": "b.txt", "chunk_index": 0},
		},
		[]string{"id-1", "id-2", "id-3"},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Ntotal())

	hits, err := idx.Search(ctx, []float32{0, 1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	// Exact match first with distance zero.
	assert.Equal(t, "id-2", hits[0].ID)
	assert.Equal(t, 0.0, hits[0].Distance)
	assert.Equal(t, "a.txt", hits[0].Metadata["source"])
	assert.LessOrEqual(t, hits[0].Distance, hits[1].Distance)
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx, _ := newTestIndex(t, 3)

	hits, err := idx.Search(context.Background(), []float32{1, 2, 3}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	idx, _ := newTestIndex(t, 3)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx,
		[][]float32{{1, 2, 3}},
		[]map[string]any{{"source": "a.txt"}},
		[]string{"id-1"},
	))

	_, err := idx.Search(ctx, []float32{1, 2}, 5)
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
}

func TestSearch_TopKLargerThanIndex(t *testing.T) {
	idx, _ := newTestIndex(t, 2)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx,
		[][]float32{{1, 1}, {2, 2}},
		[]map[string]any{{}, {}},
		[]string{"id-1", "id-2"},
	))

	hits, err := idx.Search(ctx, []float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestAdd_ArityMismatchLeavesIndexUnmodified(t *testing.T) {
	idx, _ := newTestIndex(t, 2)
	ctx := context.Background()

	err := idx.Add(ctx,
		[][]float32{{1, 1}, {2, 2}},
		[]map[string]any{{}},
		[]string{"id-1", "id-2"},
	)
	assert.True(t, errors.Is(err, domain.ErrArityMismatch))
	assert.Equal(t, 0, idx.Ntotal())
}

func TestAdd_DimensionMismatchLeavesIndexUnmodified(t *testing.T) {
	idx, _ := newTestIndex(t, 3)
	ctx := context.Background()

	err := idx.Add(ctx,
		[][]float32{{1, 2, 3}, {1, 2}},
		[]map[string]any{{}, {}},
		[]string{"id-1", "id-2"},
	)
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))
	assert.Equal(t, 0, idx.Ntotal())
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx, err := New(dir, 2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(ctx,
		[][]float32{{1, 0}, {0, 1}},
		[]map[string]any{
			{"source": "a.txt", "chunk_index": 0},
			{"source": "a.txt", "chunk_index": 1},
		},
		[]string{"id-1", "id-2"},
	))
	require.NoError(t, idx.Close())

	reopened, err := New(dir, 2)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 2, reopened.Ntotal())

	hits, err := reopened.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "id-1", hits[0].ID)
	assert.Equal(t, "a.txt", hits[0].Metadata["source"])
	// JSON round-trip turns numeric metadata into float64.
	assert.Equal(t, float64(0), hits[0].Metadata["chunk_index"])
}

func TestNew_MissingSidecarFails(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx, err := New(dir, 2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(ctx,
		[][]float32{{1, 0}},
		[]map[string]any{{"source": "a.txt"}},
		[]string{"id-1"},
	))
	require.NoError(t, idx.Close())

	require.NoError(t, os.Remove(filepath.Join(dir, MetaFile)))

	_, err = New(dir, 2)
	assert.True(t, errors.Is(err, domain.ErrInconsistentState))
}

func TestNew_DimensionDisagreementFails(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx, err := New(dir, 2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(ctx,
		[][]float32{{1, 0}},
		[]map[string]any{{}},
		[]string{"id-1"},
	))
	require.NoError(t, idx.Close())

	_, err = New(dir, 3)
	assert.True(t, errors.Is(err, domain.ErrInconsistentState))
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx, err := New(dir, 2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(ctx,
		[][]float32{{1, 0}},
		[]map[string]any{{}},
		[]string{"id-1"},
	))

	require.NoError(t, idx.Reset(ctx))
	assert.Equal(t, 0, idx.Ntotal())
	require.NoError(t, idx.Close())

	// Empty state survives a reopen.
	reopened, err := New(dir, 2)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 0, reopened.Ntotal())
}

func TestClosedIndexRejectsOperations(t *testing.T) {
	idx, _ := newTestIndex(t, 2)
	require.NoError(t, idx.Close())

	err := idx.Add(context.Background(), [][]float32{{1, 2}}, []map[string]any{{}}, []string{"id"})
	assert.Error(t, err)

	_, err = idx.Search(context.Background(), []float32{1, 2}, 1)
	assert.Error(t, err)
}
