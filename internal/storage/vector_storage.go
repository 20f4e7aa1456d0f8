// ABOUTME: In-memory vector store aligning knowledge records with embeddings and norms
// ABOUTME: Built once at startup, read-only afterwards, scored by cosine similarity
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/harper/newsbot/internal/models"
	log "github.com/sirupsen/logrus"
)

// Epsilon keeps cosine similarity finite for zero-magnitude vectors
const Epsilon = 1e-8

var (
	// ErrIncompleteEmbeddings means the embedder returned fewer vectors than records
	ErrIncompleteEmbeddings = errors.New("embedding computation returned incomplete results")
	// ErrDimensionMismatch means vectors of different lengths were mixed
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrNoRecords means there is nothing to index
	ErrNoRecords = errors.New("no knowledge records to index")
)

// Embedder turns texts into index-aligned vectors
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorStore holds records with their embeddings and norms. The three
// slices are positionally aligned and never reordered.
type VectorStore struct {
	records     []models.KnowledgeRecord
	embeddings  [][]float64
	norms       []float64
	dimension   int
	fingerprint string
}

// BuildVectorStore embeds every record's content and precomputes norms.
// Any embedding failure or short result aborts the build.
func BuildVectorStore(ctx context.Context, records []models.KnowledgeRecord, embedder Embedder) (*VectorStore, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Content
	}

	embeddings, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("building vector store: %w", err)
	}

	return NewVectorStore(records, embeddings)
}

// NewVectorStore validates alignment of precomputed embeddings and builds the store
func NewVectorStore(records []models.KnowledgeRecord, embeddings [][]float64) (*VectorStore, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if len(embeddings) != len(records) {
		return nil, fmt.Errorf("%w: %d vectors for %d records", ErrIncompleteEmbeddings, len(embeddings), len(records))
	}

	dim := len(embeddings[0])
	norms := make([]float64, len(embeddings))
	for i, e := range embeddings {
		if err := models.ValidateDimension(e, dim); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrDimensionMismatch, i, err)
		}
		norms[i] = models.Norm(e)
	}

	vs := &VectorStore{
		records:     records,
		embeddings:  embeddings,
		norms:       norms,
		dimension:   dim,
		fingerprint: fingerprint(records),
	}

	log.WithFields(log.Fields{
		"records":     len(records),
		"dimension":   dim,
		"fingerprint": vs.fingerprint[:12],
	}).Debug("vector store built")

	return vs, nil
}

// fingerprint hashes the indexed content set so rebuilds can be compared
func fingerprint(records []models.KnowledgeRecord) string {
	h := sha256.New()
	for _, r := range records {
		h.Write([]byte(r.Content))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Len returns the number of indexed records
func (vs *VectorStore) Len() int {
	return len(vs.records)
}

// Dimension returns the embedding dimension
func (vs *VectorStore) Dimension() int {
	return vs.dimension
}

// Fingerprint returns the SHA-256 of the indexed content set
func (vs *VectorStore) Fingerprint() string {
	return vs.fingerprint
}

// Records returns the indexed records in load order
func (vs *VectorStore) Records() []models.KnowledgeRecord {
	out := make([]models.KnowledgeRecord, len(vs.records))
	copy(out, vs.records)
	return out
}

// Scores returns the cosine similarity of query against every stored
// vector, in record order: dot(q, e) / (|q| * |e| + Epsilon).
func (vs *VectorStore) Scores(query []float64) ([]float64, error) {
	if len(query) != vs.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d", ErrDimensionMismatch, len(query), vs.dimension)
	}

	qNorm := models.Norm(query)
	scores := make([]float64, len(vs.embeddings))
	for i, e := range vs.embeddings {
		scores[i] = models.Dot(query, e) / (qNorm*vs.norms[i] + Epsilon)
	}
	return scores, nil
}

// SearchSimilar returns the k highest-scoring records in descending score
// order. Equal scores keep the lower record index first. k larger than the
// store returns every record; k <= 0 returns none.
func (vs *VectorStore) SearchSimilar(query []float64, k int) ([]models.ScoredRecord, error) {
	scores, err := vs.Scores(query)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []models.ScoredRecord{}, nil
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	if k > len(idx) {
		k = len(idx)
	}

	results := make([]models.ScoredRecord, k)
	for rank, i := range idx[:k] {
		results[rank] = models.ScoredRecord{
			KnowledgeRecord: vs.records[i],
			Score:           scores[i],
			Rank:            rank + 1,
		}
	}
	return results, nil
}
