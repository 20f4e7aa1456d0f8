// ABOUTME: Assistant runs one retrieval-augmented turn: retrieve, hydrate, complete
// ABOUTME: Chat and retrieval failures surface as turn-level errors
package core

import (
	"context"
	"fmt"

	"github.com/harper/newsbot/internal/models"
)

// Completer sends messages to a chat model
type Completer interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// Answer is the result of one turn
type Answer struct {
	Reply   string                `json:"reply"`
	Sources []models.ScoredRecord `json:"sources"`
}

// Assistant answers questions from the knowledge base
type Assistant struct {
	retriever *Retriever
	hydrator  *ContextHydrator
	completer Completer
	topK      int
}

// NewAssistant wires a retriever, hydrator and completer together
func NewAssistant(retriever *Retriever, hydrator *ContextHydrator, completer Completer, topK int) *Assistant {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &Assistant{
		retriever: retriever,
		hydrator:  hydrator,
		completer: completer,
		topK:      topK,
	}
}

// TopK returns the number of records retrieved per turn
func (a *Assistant) TopK() int {
	return a.topK
}

// Answer retrieves context for query and asks the chat model
func (a *Assistant) Answer(ctx context.Context, query string) (*Answer, error) {
	sources, err := a.retriever.Retrieve(ctx, query, a.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	reply, err := a.completer.Complete(ctx, a.hydrator.Hydrate(query, sources))
	if err != nil {
		return nil, fmt.Errorf("generating reply: %w", err)
	}

	return &Answer{Reply: reply, Sources: sources}, nil
}
