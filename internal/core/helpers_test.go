// ABOUTME: Shared fakes for core tests: a deterministic keyword embedder and a mock completer
// ABOUTME: Keyword stems map to fixed dimensions so similarity is predictable without an API
package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/newsbot/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder counts stem occurrences per dimension
type keywordEmbedder struct {
	stems [][]string
	err   error
	calls int
}

func newKeywordEmbedder() *keywordEmbedder {
	return &keywordEmbedder{stems: [][]string{
		{"cat", "feline", "mammal", "kitten"},
		{"rocket", "fuel", "launch", "orbit"},
		{"market", "econom", "inflation"},
	}}
}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v := make([]float64, len(e.stems))
		for _, word := range strings.Fields(strings.ToLower(text)) {
			for d, stems := range e.stems {
				for _, stem := range stems {
					if strings.HasPrefix(word, stem) {
						v[d]++
					}
				}
			}
		}
		out[i] = v
	}
	return out, nil
}

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, messages []models.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func writeKB(t *testing.T, content string) string {
	t.Helper()
	base := filepath.Join(t.TempDir(), "news")
	require.NoError(t, os.WriteFile(base+".json", []byte(content), 0o644))
	return base
}

const catsAndRockets = `[{"title":"A","content":"cats are mammals"},{"title":"B","content":"rockets use fuel"}]`
