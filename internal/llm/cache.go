// ABOUTME: Process-lifetime embedding cache keyed by model and text hash
// ABOUTME: Embeds only cache misses and stores results only when the whole call succeeds
package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Embedder turns texts into index-aligned vectors
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// CachedEmbedder memoizes vectors from an inner Embedder
type CachedEmbedder struct {
	inner Embedder
	model string

	mu    sync.RWMutex
	cache map[string][]float64
}

// NewCachedEmbedder wraps inner. model namespaces the cache keys.
func NewCachedEmbedder(inner Embedder, model string) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		model: model,
		cache: make(map[string][]float64),
	}
}

func (c *CachedEmbedder) key(text string) string {
	h := sha256.Sum256([]byte(c.model + "\x00" + text))
	return hex.EncodeToString(h[:])
}

// Embed returns cached vectors where available and embeds the rest in one
// call to the inner embedder.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	keys := make([]string, len(texts))

	var missIdx []int
	var missTexts []string
	seen := make(map[string]int)

	c.mu.RLock()
	for i, text := range texts {
		keys[i] = c.key(text)
		if v, ok := c.cache[keys[i]]; ok {
			out[i] = v
			continue
		}
		// identical texts in one call are embedded once
		if _, dup := seen[keys[i]]; !dup {
			seen[keys[i]] = len(missTexts)
			missTexts = append(missTexts, text)
		}
		missIdx = append(missIdx, i)
	}
	c.mu.RUnlock()

	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missTexts) {
		return nil, &EmbeddingServiceError{Batch: 1, BatchSize: len(missTexts), Err: errShortResult(len(missTexts), len(vectors))}
	}

	c.mu.Lock()
	for j, text := range missTexts {
		c.cache[c.key(text)] = vectors[j]
	}
	c.mu.Unlock()

	for _, i := range missIdx {
		out[i] = vectors[seen[keys[i]]]
	}
	return out, nil
}

// Len returns the number of cached vectors
func (c *CachedEmbedder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
