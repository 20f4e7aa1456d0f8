// ABOUTME: Test helpers that run commands against an in-memory runtime
// ABOUTME: Keyword embeddings and a canned completer replace the OpenAI client

package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/newsbot/internal/config"
	"github.com/harper/newsbot/internal/core"
	"github.com/harper/newsbot/internal/models"
	"github.com/spf13/cobra"
)

type keywordEmbedder struct {
	failQueries bool
	built       bool
}

// dimension 0 counts "cat", dimension 1 counts "rocket"
func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if e.built && e.failQueries {
		return nil, errors.New("embedding service unavailable")
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		lower := strings.ToLower(t)
		out[i] = []float64{float64(strings.Count(lower, "cat")), float64(strings.Count(lower, "rocket"))}
	}
	return out, nil
}

type cannedCompleter struct{}

func (cannedCompleter) Complete(_ context.Context, messages []models.Message) (string, error) {
	return "answer: " + messages[len(messages)-1].Content, nil
}

// useTestRuntime points runtimeLoader at an in-memory knowledge base
func useTestRuntime(t *testing.T, embedder *keywordEmbedder) {
	t.Helper()

	base := filepath.Join(t.TempDir(), "news")
	kb := `[{"title":"Cats","content":"cats purr\nloudly"},{"title":"Rockets","content":"rockets fly"}]`
	if err := os.WriteFile(base+".json", []byte(kb), 0o644); err != nil {
		t.Fatalf("writing knowledge: %v", err)
	}

	original := runtimeLoader
	t.Cleanup(func() { runtimeLoader = original })

	runtimeLoader = func(cmd *cobra.Command) (*core.Runtime, error) {
		rt, err := core.NewRuntimeWith(cmd.Context(), &config.Config{KnowledgeBase: base, TopK: 1}, embedder, cannedCompleter{})
		embedder.built = true
		return rt, err
	}
}

// runRoot executes the root command with args and stdin, returning stdout and stderr
func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
