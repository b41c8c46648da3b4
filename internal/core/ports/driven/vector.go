package driven

import "context"

// VectorIndex stores fixed-dimension float vectors with per-entry id and
// metadata, and answers nearest-neighbour queries by squared Euclidean
// distance over the raw vectors. The index performs no normalisation;
// callers wanting cosine similarity must normalise before insertion.
//
// Mutations (Add, Reset) assume a single writer. Concurrent searches are
// safe but may observe a transient size smaller than the durable state.
type VectorIndex interface {
	// Add appends a batch of entries and synchronously persists the full
	// index state before returning. The three slices must be equal length
	// (domain.ErrArityMismatch otherwise) and every vector must match the
	// configured dimension (domain.ErrDimensionMismatch). On error the
	// index is left unmodified.
	Add(ctx context.Context, embeddings [][]float32, metadatas []map[string]any, ids []string) error

	// Search returns up to topK hits ordered by ascending distance.
	// An empty index yields an empty result, never an error.
	Search(ctx context.Context, query []float32, topK int) ([]VectorHit, error)

	// Reset discards all entries and persists the empty state. Irreversible.
	Reset(ctx context.Context) error

	// Ntotal returns the number of stored vectors.
	Ntotal() int

	// Dimensions returns the configured vector dimension.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// ID is the entry id supplied at Add time.
	ID string

	// Distance is the squared Euclidean distance to the query vector.
	Distance float64

	// Metadata is the entry metadata supplied at Add time.
	Metadata map[string]any
}
