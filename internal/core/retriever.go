// ABOUTME: Retriever embeds a query and ranks knowledge records by cosine similarity
// ABOUTME: Returns the top-k records in descending score order with lower index winning ties
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/newsbot/internal/models"
	"github.com/harper/newsbot/internal/storage"
	log "github.com/sirupsen/logrus"
)

// DefaultTopK is the number of records retrieved per query
const DefaultTopK = 3

// ErrEmptyQuery is returned for blank queries
var ErrEmptyQuery = errors.New("query cannot be empty")

// Retriever finds the knowledge records most similar to a query
type Retriever struct {
	store    *storage.VectorStore
	embedder storage.Embedder
}

// NewRetriever creates a Retriever over a built vector store
func NewRetriever(store *storage.VectorStore, embedder storage.Embedder) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
	}
}

// Retrieve embeds query as a single-item batch and returns the k best
// matching records. An embedding failure fails only this call.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.ScoredRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding query: %w", storage.ErrIncompleteEmbeddings)
	}

	results, err := r.store.SearchSimilar(vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("scoring query: %w", err)
	}

	if log.IsLevelEnabled(log.DebugLevel) {
		for _, res := range results {
			log.WithFields(log.Fields{"rank": res.Rank, "id": res.ID, "score": res.Score}).Debug("retrieved " + res.Title)
		}
	}
	return results, nil
}
