package domain

// IngestResult summarises a completed ingestion.
type IngestResult struct {
	// DocumentID is the record-store id of the created document.
	DocumentID int64 `json:"document_id"`

	// ChunkCount is the number of chunks created and indexed.
	ChunkCount int `json:"num_chunks"`
}

// RetrievedChunk is one query-time hit: a vector search result joined back
// to its durable chunk content.
type RetrievedChunk struct {
	// ID is the vector entry id assigned at ingestion.
	ID string `json:"id"`

	// Distance is the squared Euclidean distance to the query vector.
	// Smaller is closer.
	Distance float64 `json:"distance"`

	// Metadata is the vector entry metadata ({source, chunk_index}).
	Metadata map[string]any `json:"metadata"`

	// Content is the chunk text resolved from the record store.
	// Empty when metadata is malformed or the lookup missed.
	Content string `json:"content"`
}

// QueryResult is the structured response to a retrieval query.
type QueryResult struct {
	// Answer is the sanitised completion output, or the no-results
	// sentinel when the index returned nothing.
	Answer string `json:"answer"`

	// Retrieved lists the hits in ascending distance order, including
	// entries whose content could not be resolved.
	Retrieved []RetrievedChunk `json:"retrieved"`
}

// NoResultsAnswer is returned when the vector index holds no candidates
// for a query. The completion provider is not invoked in that case.
const NoResultsAnswer = "No relevant chunks found."

// StoreStats reports record-store contents for status output.
type StoreStats struct {
	Documents int64 `json:"documents"`
	Chunks    int64 `json:"chunks"`
}
