package driven

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// RecordStore persists documents and their chunks.
// Backed by SQLite.
type RecordStore interface {
	// CreateDocument stores a new document and returns it with its
	// assigned id and upload timestamp.
	CreateDocument(ctx context.Context, filename, text string) (*domain.Document, error)

	// CreateDocumentWithChunks stores a document and its chunk batch in a
	// single transaction. Chunk DocumentID fields are filled in from the
	// created document.
	CreateDocumentWithChunks(ctx context.Context, filename, text string, chunks []domain.Chunk) (*domain.Document, error)

	// GetDocumentByFilename returns the document for a source name, or
	// domain.ErrNotFound.
	GetDocumentByFilename(ctx context.Context, filename string) (*domain.Document, error)

	// GetChunk returns the chunk at a position within a document, or
	// domain.ErrNotFound.
	GetChunk(ctx context.Context, documentID int64, position int) (*domain.Chunk, error)

	// DeleteDocument removes a document and, by cascade, its chunks.
	// Used as a compensating action when indexing fails after commit.
	DeleteDocument(ctx context.Context, id int64) error

	// Stats reports document and chunk counts.
	Stats(ctx context.Context) (*domain.StoreStats, error)

	// Reset wipes all documents and chunks. Irreversible.
	Reset(ctx context.Context) error

	// Close releases the underlying database handle.
	Close() error
}
