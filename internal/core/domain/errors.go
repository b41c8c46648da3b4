package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrArityMismatch indicates a vector batch whose embeddings, ids and
	// metadatas differ in length. The batch is rejected, never truncated.
	ErrArityMismatch = errors.New("embeddings, ids and metadatas length mismatch")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// configured index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInconsistentState indicates the vector index artifacts on disk are
	// misaligned (one artifact missing, or parallel lists of differing
	// length). Loading fails rather than serving wrong retrievals.
	ErrInconsistentState = errors.New("vector index state inconsistent")

	// ErrEmbeddingUnavailable indicates no embedding provider is configured.
	// Ingestion and query both require embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCompletionUnavailable indicates no completion provider is configured.
	// Retrieval still works; only the prose answer is unavailable.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrUnsupportedFormat indicates the text extractor cannot handle the
	// given file type.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtraction indicates text extraction failed on a supported format.
	ErrExtraction = errors.New("text extraction failed")
)
