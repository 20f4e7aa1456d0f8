// ABOUTME: Tests for knowledge base startup and runtime wiring
// ABOUTME: A failed load or embedding build must stop startup before any retrieval or chat call
package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/harper/newsbot/internal/config"
	"github.com/harper/newsbot/internal/knowledge"
	"github.com/harper/newsbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOpenKnowledgeBase(t *testing.T) {
	kb, err := OpenKnowledgeBase(context.Background(), writeKB(t, catsAndRockets), newKeywordEmbedder())
	require.NoError(t, err)

	records := kb.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].Title)
	assert.Equal(t, 2, kb.Store.Len())
}

func TestOpenKnowledgeBase_MissingSource(t *testing.T) {
	emb := newKeywordEmbedder()
	_, err := OpenKnowledgeBase(context.Background(), filepath.Join(t.TempDir(), "none"), emb)
	require.Error(t, err)
	assert.True(t, errors.Is(err, knowledge.ErrNoKnowledgeSource))
	assert.Equal(t, 0, emb.calls)
}

func TestNewRuntimeWith(t *testing.T) {
	cfg := &config.Config{KnowledgeBase: writeKB(t, catsAndRockets), TopK: 2}
	completer := &mockCompleter{}

	rt, err := NewRuntimeWith(context.Background(), cfg, newKeywordEmbedder(), completer)
	require.NoError(t, err)
	assert.Equal(t, 2, rt.Assistant.TopK())
	assert.Equal(t, 0, rt.Sessions.Len())
	assert.Same(t, cfg, rt.Config)
}

func TestNewRuntimeWith_EmbeddingFailureStopsStartup(t *testing.T) {
	cfg := &config.Config{KnowledgeBase: writeKB(t, catsAndRockets), TopK: 3}
	emb := newKeywordEmbedder()
	emb.err = errors.New("embedding API unavailable")
	completer := &mockCompleter{}

	rt, err := NewRuntimeWith(context.Background(), cfg, emb, completer)
	require.Error(t, err)
	assert.Nil(t, rt)
	assert.Equal(t, 1, emb.calls)
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestNewRuntimeWith_ShortEmbeddingResult(t *testing.T) {
	cfg := &config.Config{KnowledgeBase: writeKB(t, catsAndRockets), TopK: 3}

	_, err := NewRuntimeWith(context.Background(), cfg, shortEmbedder{}, &mockCompleter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrIncompleteEmbeddings)
}

type shortEmbedder struct{}

func (shortEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	return [][]float64{{1, 0}}, nil
}
