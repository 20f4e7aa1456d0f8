// ABOUTME: KnowledgeBase is the once-built, read-only retrieval state shared by every session
// ABOUTME: Runtime wires configuration, the OpenAI client, the knowledge base, and the assistant together
package core

import (
	"context"
	"fmt"

	"github.com/harper/newsbot/internal/config"
	"github.com/harper/newsbot/internal/knowledge"
	"github.com/harper/newsbot/internal/llm"
	"github.com/harper/newsbot/internal/models"
	"github.com/harper/newsbot/internal/storage"
	log "github.com/sirupsen/logrus"
)

// KnowledgeBase holds loaded records and their vector store
type KnowledgeBase struct {
	Source string
	Store  *storage.VectorStore
}

// OpenKnowledgeBase loads the knowledge source and embeds it. Any error is
// a startup failure; no partial knowledge base is returned.
func OpenKnowledgeBase(ctx context.Context, base string, embedder storage.Embedder) (*KnowledgeBase, error) {
	records, err := knowledge.Load(base)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge: %w", err)
	}
	log.WithFields(log.Fields{"source": base, "records": len(records)}).Info("knowledge loaded")

	store, err := storage.BuildVectorStore(ctx, records, embedder)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"records":     store.Len(),
		"dimension":   store.Dimension(),
		"fingerprint": store.Fingerprint()[:12],
	}).Info("knowledge indexed")

	return &KnowledgeBase{Source: base, Store: store}, nil
}

// Records returns the indexed records in load order
func (kb *KnowledgeBase) Records() []models.KnowledgeRecord {
	return kb.Store.Records()
}

// Runtime is everything a conversational surface needs
type Runtime struct {
	Config    *config.Config
	KB        *KnowledgeBase
	Retriever *Retriever
	Assistant *Assistant
	Sessions  *SessionStore
}

// NewRuntime builds the OpenAI client and knowledge base from configuration
func NewRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	client, err := llm.NewOpenAIClientWithConfig(llm.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}
	embedder := llm.NewCachedEmbedder(client, client.EmbeddingModel())
	return NewRuntimeWith(ctx, cfg, embedder, client)
}

// NewRuntimeWith builds a runtime over explicit embedding and chat backends
func NewRuntimeWith(ctx context.Context, cfg *config.Config, embedder storage.Embedder, completer Completer) (*Runtime, error) {
	kb, err := OpenKnowledgeBase(ctx, cfg.KnowledgeBase, embedder)
	if err != nil {
		return nil, err
	}

	retriever := NewRetriever(kb.Store, embedder)
	assistant := NewAssistant(retriever, NewContextHydrator(cfg.Instructions), completer, cfg.TopK)

	return &Runtime{
		Config:    cfg,
		KB:        kb,
		Retriever: retriever,
		Assistant: assistant,
		Sessions:  NewSessionStore(),
	}, nil
}
