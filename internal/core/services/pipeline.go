// Package services implements the core retrieval pipeline.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc-cli/internal/chunker"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure RetrievalPipeline implements the interface.
var _ driving.Pipeline = (*RetrievalPipeline)(nil)

// answerInstruction prefixes every completion prompt.
const answerInstruction = "You are an assistant. Use the following context to answer the question."

// contextSeparator joins retrieved chunk contents inside the prompt.
const contextSeparator = "\n---\n"

// RetrievalPipeline orchestrates ingestion and retrieval across the vector
// index and the record store. All collaborators are injected at
// construction; embedder and completion may be nil, in which case the
// corresponding operations report the provider as unavailable.
type RetrievalPipeline struct {
	chunks     *chunker.Processor
	embedder   driven.EmbeddingService
	completion driven.CompletionService
	index      driven.VectorIndex
	records    driven.RecordStore
	extractor  driven.TextExtractor
	topK       int
}

// NewRetrievalPipeline creates a pipeline over the given collaborators.
// defaultTopK is the neighbour count used when a query passes topK <= 0.
func NewRetrievalPipeline(
	chunks *chunker.Processor,
	embedder driven.EmbeddingService,
	completion driven.CompletionService,
	index driven.VectorIndex,
	records driven.RecordStore,
	extractor driven.TextExtractor,
	defaultTopK int,
) *RetrievalPipeline {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &RetrievalPipeline{
		chunks:     chunks,
		embedder:   embedder,
		completion: completion,
		index:      index,
		records:    records,
		extractor:  extractor,
		topK:       defaultTopK,
	}
}

// Ingest chunks the text, embeds every chunk, commits document + chunks to
// the record store and then adds the vectors to the index.
//
// Ordering is deliberate: embedding is side-effect free, the record-store
// commit is a single transaction, and the vector add happens last so the
// index never points at records that were rolled back. If the vector add
// fails the freshly committed document is deleted as a compensating action.
func (p *RetrievalPipeline) Ingest(ctx context.Context, text, sourceName string) (*domain.IngestResult, error) {
	if p.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if sourceName == "" {
		return nil, fmt.Errorf("%w: source name cannot be empty", domain.ErrInvalidInput)
	}

	logger.Section("Ingest")
	logger.Debug("Source: %q", sourceName)

	pieces := p.chunks.Chunk(text)
	logger.Debug("Chunks: %d", len(pieces))

	if len(pieces) == 0 {
		// Nothing to index; still record the (empty) document.
		doc, err := p.records.CreateDocumentWithChunks(ctx, sourceName, text, nil)
		if err != nil {
			return nil, fmt.Errorf("persisting empty document: %w", err)
		}
		return &domain.IngestResult{DocumentID: doc.ID, ChunkCount: 0}, nil
	}

	vectors, err := p.embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(vectors) != len(pieces) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(pieces))
	}
	dim := p.index.Dimensions()
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%w: chunk %d embedded to length %d, index wants %d",
				domain.ErrDimensionMismatch, i, len(vec), dim)
		}
	}

	ids := make([]string, len(pieces))
	metadatas := make([]map[string]any, len(pieces))
	records := make([]domain.Chunk, len(pieces))
	for i, content := range pieces {
		ids[i] = uuid.New().String()
		metadatas[i] = domain.ChunkMetadata(sourceName, i)
		records[i] = domain.Chunk{
			Content:  content,
			Position: i,
			Metadata: metadatas[i],
		}
	}

	doc, err := p.records.CreateDocumentWithChunks(ctx, sourceName, text, records)
	if err != nil {
		return nil, fmt.Errorf("persisting document: %w", err)
	}

	if err := p.index.Add(ctx, vectors, metadatas, ids); err != nil {
		// Compensate so the record store does not keep chunks the index
		// never learned about.
		if delErr := p.records.DeleteDocument(ctx, doc.ID); delErr != nil {
			logger.Warn("Could not roll back document %d after index failure: %v", doc.ID, delErr)
			return nil, errors.Join(err, delErr)
		}
		return nil, fmt.Errorf("indexing vectors: %w", err)
	}

	logger.Info("Ingested %q: document %d, %d chunks", sourceName, doc.ID, len(pieces))
	return &domain.IngestResult{DocumentID: doc.ID, ChunkCount: len(pieces)}, nil
}

// IngestFile extracts text from the file at path and ingests it under the
// file's base name.
func (p *RetrievalPipeline) IngestFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	if p.extractor == nil {
		return nil, fmt.Errorf("%w: no text extractor configured", domain.ErrUnsupportedFormat)
	}

	text, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	return p.Ingest(ctx, text, filepath.Base(path))
}

// Query embeds the question, searches the index and resolves each hit back
// to its durable chunk content before asking the completion provider.
//
// Resolution failures (malformed metadata, missing document or chunk) leave
// the entry's content empty but keep the entry in the result. If only the
// completion step fails, the partial QueryResult with the retrieved chunks
// is returned along with the error so callers can still show the evidence.
func (p *RetrievalPipeline) Query(ctx context.Context, queryText string, topK int) (*domain.QueryResult, error) {
	if p.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if topK <= 0 {
		topK = p.topK
	}

	logger.Section("Query")
	logger.Debug("Question: %q, topK: %d", queryText, topK)

	qvec, err := p.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := p.index.Search(ctx, qvec, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("Hits: %d", len(hits))

	if len(hits) == 0 {
		return &domain.QueryResult{
			Answer:    domain.NoResultsAnswer,
			Retrieved: []domain.RetrievedChunk{},
		}, nil
	}

	retrieved := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		entry := domain.RetrievedChunk{
			ID:       hit.ID,
			Distance: hit.Distance,
			Metadata: hit.Metadata,
		}
		entry.Content = p.resolveContent(ctx, hit.Metadata)
		retrieved = append(retrieved, entry)
	}

	contexts := make([]string, 0, len(retrieved))
	for _, r := range retrieved {
		if r.Content != "" {
			contexts = append(contexts, r.Content)
		}
	}

	result := &domain.QueryResult{Retrieved: retrieved}

	if p.completion == nil {
		return result, domain.ErrCompletionUnavailable
	}

	prompt := buildPrompt(contexts, queryText)
	raw, err := p.completion.Complete(ctx, prompt)
	if err != nil {
		return result, fmt.Errorf("generating answer: %w", err)
	}

	result.Answer = SanitiseAnswer(raw)
	return result, nil
}

// Reset wipes the vector index and the record store together.
func (p *RetrievalPipeline) Reset(ctx context.Context) error {
	return errors.Join(p.index.Reset(ctx), p.records.Reset(ctx))
}

// resolveContent joins a hit's metadata back to its chunk record.
// Any failure degrades to empty content; the query must not abort because
// one entry's stores have diverged.
func (p *RetrievalPipeline) resolveContent(ctx context.Context, metadata map[string]any) string {
	source, ok := metadata[domain.MetaSource].(string)
	if !ok || source == "" {
		logger.Warn("Vector entry metadata missing source, skipping content")
		return ""
	}
	position, ok := chunkIndexValue(metadata[domain.MetaChunkIndex])
	if !ok {
		logger.Warn("Vector entry metadata missing chunk_index for %q", source)
		return ""
	}

	doc, err := p.records.GetDocumentByFilename(ctx, source)
	if err != nil {
		logger.Warn("Document %q not resolvable: %v", source, err)
		return ""
	}

	chunk, err := p.records.GetChunk(ctx, doc.ID, position)
	if err != nil {
		logger.Warn("Chunk %d of %q not resolvable: %v", position, source, err)
		return ""
	}

	return chunk.Content
}

// chunkIndexValue coerces a metadata chunk index to int. Metadata that
// round-tripped through JSON carries float64; fresh metadata carries int.
func chunkIndexValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// buildPrompt assembles the completion prompt from the resolved contexts
// and the user's question.
func buildPrompt(contexts []string, question string) string {
	var b strings.Builder
	b.WriteString(answerInstruction)
	b.WriteString("\n\nContext:\n")
	b.WriteString(strings.Join(contexts, contextSeparator))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
