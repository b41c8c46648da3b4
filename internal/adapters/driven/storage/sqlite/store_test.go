package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore_Migrates(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Documents)
	assert.Equal(t, int64(0), stats.Chunks)
}

func TestNewStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.CreateDocument(ctx, "a.txt", "hello")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Migrations are idempotent and data survives.
	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	doc, err := reopened.GetDocumentByFilename(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Text)
}

func TestCreateDocumentWithChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{
		{Content: "first chunk", Position: 0, Metadata: domain.ChunkMetadata("a.txt", 0)},
		{Content: "second chunk", Position: 1, Metadata: domain.ChunkMetadata("a.txt", 1)},
	}

	doc, err := store.CreateDocumentWithChunks(ctx, "a.txt", "first chunk second chunk", chunks)
	require.NoError(t, err)
	assert.Positive(t, doc.ID)
	assert.Equal(t, "a.txt", doc.Filename)
	assert.False(t, doc.UploadedAt.IsZero())

	chunk, err := store.GetChunk(ctx, doc.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "second chunk", chunk.Content)
	assert.Equal(t, 1, chunk.Position)
	assert.Equal(t, "a.txt", chunk.Metadata[domain.MetaSource])

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Documents)
	assert.Equal(t, int64(2), stats.Chunks)
}

func TestCreateDocumentWithChunks_DuplicatePositionRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{
		{Content: "one", Position: 0},
		{Content: "dup", Position: 0},
	}

	_, err := store.CreateDocumentWithChunks(ctx, "a.txt", "text", chunks)
	require.Error(t, err)

	// The whole transaction rolled back, document included.
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Documents)
	assert.Equal(t, int64(0), stats.Chunks)
}

func TestGetDocumentByFilename_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetDocumentByFilename(context.Background(), "missing.txt")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetDocumentByFilename_EarliestWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateDocument(ctx, "a.txt", "first")
	require.NoError(t, err)
	_, err = store.CreateDocument(ctx, "a.txt", "second")
	require.NoError(t, err)

	doc, err := store.GetDocumentByFilename(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, first.ID, doc.ID)
	assert.Equal(t, "first", doc.Text)
}

func TestGetChunk_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, err := store.CreateDocument(ctx, "a.txt", "text")
	require.NoError(t, err)

	_, err = store.GetChunk(ctx, doc.ID, 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteDocument_CascadesToChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, err := store.CreateDocumentWithChunks(ctx, "a.txt", "text", []domain.Chunk{
		{Content: "one", Position: 0},
		{Content: "two", Position: 1},
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteDocument(ctx, doc.ID))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Documents)
	assert.Equal(t, int64(0), stats.Chunks)
}

func TestDeleteDocument_MissingIsNoError(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.DeleteDocument(context.Background(), 12345))
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateDocumentWithChunks(ctx, "a.txt", "text", []domain.Chunk{
		{Content: "one", Position: 0},
	})
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Documents)
	assert.Equal(t, int64(0), stats.Chunks)
}
