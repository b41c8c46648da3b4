// Package driving provides interfaces for primary (inbound) ports.
package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// Pipeline is the retrieval engine's public surface: ingestion of source
// text into the dual store, and retrieval-augmented querying.
type Pipeline interface {
	// Ingest chunks text, embeds the chunks, persists document + chunk
	// records and indexes the vectors under the given source name.
	Ingest(ctx context.Context, text, sourceName string) (*domain.IngestResult, error)

	// IngestFile extracts text from a file and ingests it, using the
	// file's base name as the source name.
	IngestFile(ctx context.Context, path string) (*domain.IngestResult, error)

	// Query embeds the question, retrieves the nearest chunks, resolves
	// their content and asks the completion provider for an answer.
	// A partial QueryResult with populated Retrieved is returned alongside
	// the error when only the completion step fails.
	Query(ctx context.Context, queryText string, topK int) (*domain.QueryResult, error)

	// Reset wipes both the vector index and the record store.
	Reset(ctx context.Context) error
}
