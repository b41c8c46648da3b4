// Package flat provides an exact nearest-neighbour vector index.
//
// Vectors are held in memory and scanned linearly with squared Euclidean
// distance. State is persisted as two artifacts in the store directory: a
// binary vector file and a JSON sidecar holding the parallel id/metadata
// lists. Every mutation rewrites both artifacts before returning.
package flat

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Artifact file names within the store directory.
const (
	IndexFile = "flat.index"
	MetaFile  = "meta.json"
)

// Index is a flat L2 vector index with synchronous disk persistence.
//
// A single writer is assumed for Add and Reset; the mutex makes concurrent
// searches safe but readers racing a writer may see the pre-write state.
type Index struct {
	mu        sync.RWMutex
	dir       string
	dim       int
	vectors   [][]float32
	ids       []string
	metadatas []map[string]any
	closed    bool
}

// indexArtifact is the gob-encoded vector file layout.
type indexArtifact struct {
	Dim     int
	Vectors [][]float32
}

// metaArtifact is the JSON sidecar layout. Position i corresponds to the
// i-th vector in the index artifact.
type metaArtifact struct {
	IDs       []string         `json:"ids"`
	Metadatas []map[string]any `json:"metadatas"`
}

// New opens or creates a flat index in dir with the given dimension.
//
// When both artifacts exist they are loaded and verified to be positionally
// aligned. Exactly one artifact present means the store location was
// half-written or tampered with; that fails with domain.ErrInconsistentState
// rather than silently dropping data.
func New(dir string, dim int) (*Index, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: store directory cannot be empty", domain.ErrInvalidInput)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidInput, dim)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	idx := &Index{dir: dir, dim: dim}
	if err := idx.load(); err != nil {
		return nil, err
	}
	return idx, nil
}

// load reads both artifacts from disk if present.
func (idx *Index) load() error {
	indexPath := filepath.Join(idx.dir, IndexFile)
	metaPath := filepath.Join(idx.dir, MetaFile)

	indexExists := fileExists(indexPath)
	metaExists := fileExists(metaPath)

	if !indexExists && !metaExists {
		// Fresh store
		return nil
	}
	if indexExists != metaExists {
		return fmt.Errorf("%w: found %s=%t %s=%t in %s",
			domain.ErrInconsistentState, IndexFile, indexExists, MetaFile, metaExists, idx.dir)
	}

	f, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("opening index artifact: %w", err)
	}
	defer f.Close()

	var art indexArtifact
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return fmt.Errorf("decoding index artifact: %w", err)
	}
	if art.Dim != idx.dim {
		return fmt.Errorf("%w: index artifact has dim %d, configured %d",
			domain.ErrInconsistentState, art.Dim, idx.dim)
	}

	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("reading metadata artifact: %w", err)
	}
	var meta metaArtifact
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return fmt.Errorf("decoding metadata artifact: %w", err)
	}

	if len(meta.IDs) != len(art.Vectors) || len(meta.Metadatas) != len(art.Vectors) {
		return fmt.Errorf("%w: %d vectors, %d ids, %d metadatas",
			domain.ErrInconsistentState, len(art.Vectors), len(meta.IDs), len(meta.Metadatas))
	}

	idx.vectors = art.Vectors
	idx.ids = meta.IDs
	idx.metadatas = meta.Metadatas
	return nil
}

// Add appends a batch and persists the full state before returning.
// The batch is validated up front so a failure leaves the index unmodified.
func (idx *Index) Add(_ context.Context, embeddings [][]float32, metadatas []map[string]any, ids []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return errors.New("flat: index is closed")
	}

	if len(embeddings) != len(ids) || len(embeddings) != len(metadatas) {
		return fmt.Errorf("%w: %d embeddings, %d metadatas, %d ids",
			domain.ErrArityMismatch, len(embeddings), len(metadatas), len(ids))
	}

	for i, emb := range embeddings {
		if len(emb) != idx.dim {
			return fmt.Errorf("%w: embedding %d has length %d, want %d",
				domain.ErrDimensionMismatch, i, len(emb), idx.dim)
		}
	}

	idx.vectors = append(idx.vectors, embeddings...)
	idx.ids = append(idx.ids, ids...)
	idx.metadatas = append(idx.metadatas, metadatas...)

	if err := idx.save(); err != nil {
		// Roll back the in-memory append so memory matches disk.
		n := len(idx.vectors) - len(embeddings)
		idx.vectors = idx.vectors[:n]
		idx.ids = idx.ids[:n]
		idx.metadatas = idx.metadatas[:n]
		return err
	}
	return nil
}

// Search returns up to topK hits ordered by ascending squared L2 distance.
func (idx *Index) Search(_ context.Context, query []float32, topK int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, errors.New("flat: index is closed")
	}
	if len(idx.vectors) == 0 || topK <= 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has length %d, want %d",
			domain.ErrDimensionMismatch, len(query), idx.dim)
	}

	hits := make([]driven.VectorHit, 0, len(idx.vectors))
	for i, vec := range idx.vectors {
		if i >= len(idx.ids) {
			// Defensive bound; parallel lists are maintained together.
			break
		}
		hits = append(hits, driven.VectorHit{
			ID:       idx.ids[i],
			Distance: squaredL2(query, vec),
			Metadata: idx.metadatas[i],
		})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

// Reset discards all entries and persists the empty state.
func (idx *Index) Reset(_ context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return errors.New("flat: index is closed")
	}

	idx.vectors = nil
	idx.ids = nil
	idx.metadatas = nil
	return idx.save()
}

// Ntotal returns the number of stored vectors.
func (idx *Index) Ntotal() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Dimensions returns the configured vector dimension.
func (idx *Index) Dimensions() int {
	return idx.dim
}

// Close marks the index closed. State is already durable; nothing is flushed.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	return nil
}

// save writes both artifacts via temp-file + rename so a torn write never
// corrupts the previous on-disk state. Caller must hold the write lock.
func (idx *Index) save() error {
	art := indexArtifact{Dim: idx.dim, Vectors: idx.vectors}
	indexPath := filepath.Join(idx.dir, IndexFile)

	tmp, err := os.CreateTemp(idx.dir, IndexFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp index artifact: %w", err)
	}
	if err := gob.NewEncoder(tmp).Encode(&art); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encoding index artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp index artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), indexPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing index artifact: %w", err)
	}

	meta := metaArtifact{IDs: idx.ids, Metadatas: idx.metadatas}
	if meta.IDs == nil {
		meta.IDs = []string{}
	}
	if meta.Metadatas == nil {
		meta.Metadatas = []map[string]any{}
	}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata artifact: %w", err)
	}

	metaPath := filepath.Join(idx.dir, MetaFile)
	tmpMeta, err := os.CreateTemp(idx.dir, MetaFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp metadata artifact: %w", err)
	}
	if _, err := tmpMeta.Write(metaBytes); err != nil {
		tmpMeta.Close()
		os.Remove(tmpMeta.Name())
		return fmt.Errorf("writing metadata artifact: %w", err)
	}
	if err := tmpMeta.Close(); err != nil {
		os.Remove(tmpMeta.Name())
		return fmt.Errorf("closing temp metadata artifact: %w", err)
	}
	if err := os.Rename(tmpMeta.Name(), metaPath); err != nil {
		os.Remove(tmpMeta.Name())
		return fmt.Errorf("replacing metadata artifact: %w", err)
	}

	return nil
}

// squaredL2 computes the squared Euclidean distance between two vectors of
// equal length.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
