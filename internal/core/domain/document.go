package domain

import "time"

// Document represents one ingested source with its full extracted text.
// Documents are immutable once created; re-ingesting a file creates a new
// document rather than updating in place.
type Document struct {
	// ID is assigned by the record store on creation.
	ID int64

	// Filename is the logical source name. It is the join key between
	// vector-entry metadata and the record store, so it must be unique
	// enough to disambiguate sources.
	Filename string

	// Text is the full extracted text before chunking.
	Text string

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}

// Chunk is a searchable segment of a document.
// Chunks are created as a batch during ingestion and never mutated.
type Chunk struct {
	// ID is assigned by the record store on creation.
	ID int64

	// DocumentID links to the owning Document.
	DocumentID int64

	// Content is the chunk text, including any overlap prefix.
	Content string

	// Position is the zero-based index within the document.
	// (DocumentID, Position) is unique.
	Position int

	// Metadata carries at minimum {source: filename, chunk_index: position}.
	Metadata map[string]any
}

// Metadata keys shared between vector entries and chunk records.
// A vector entry's (source, chunk_index) pair must resolve to exactly one
// chunk in the record store; retrieval degrades to empty content when the
// two stores have diverged.
const (
	MetaSource     = "source"
	MetaChunkIndex = "chunk_index"
)

// ChunkMetadata builds the canonical metadata map written both to the
// vector index and to the chunk record.
func ChunkMetadata(source string, position int) map[string]any {
	return map[string]any{
		MetaSource:     source,
		MetaChunkIndex: position,
	}
}
