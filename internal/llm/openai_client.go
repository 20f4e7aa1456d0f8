// ABOUTME: OpenAI client for batched embeddings and chat completions
// ABOUTME: Truncates inputs, paces batches with a rate limiter, and fails whole calls on any batch error
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harper/newsbot/internal/config"
	"github.com/harper/newsbot/internal/models"
	"github.com/harper/newsbot/internal/util"
	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4.1"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultBatchSize is the number of inputs per embedding request
	DefaultBatchSize = 10
	// DefaultTruncateChars caps each embedding input, in characters
	DefaultTruncateChars = 3000
	// DefaultBatchDelay spaces consecutive embedding requests
	DefaultBatchDelay = 200 * time.Millisecond
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	BatchSize      int
	TruncateChars  int
	BatchDelay     time.Duration
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration. Retries are off.
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		BatchSize:      DefaultBatchSize,
		TruncateChars:  DefaultTruncateChars,
		BatchDelay:     DefaultBatchDelay,
		Timeout:        30 * time.Second,
		MaxRetries:     0,
		RetryDelay:     2 * time.Second,
	}
}

// ConfigFrom maps application configuration onto client configuration
func ConfigFrom(cfg *config.Config) *ClientConfig {
	return &ClientConfig{
		APIKey:         cfg.OpenAIKey,
		BaseURL:        cfg.BaseURL,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		BatchSize:      cfg.BatchSize,
		TruncateChars:  cfg.TruncateChars,
		BatchDelay:     cfg.BatchDelay,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	}
}

// embeddingsAPI and chatAPI are the slices of *openai.Client we depend on
type embeddingsAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient wraps the OpenAI API client
type OpenAIClient struct {
	embeddings embeddingsAPI
	chat       chatAPI
	cfg        ClientConfig
	limiter    *rate.Limiter
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(cfg *ClientConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	return newClient(cfg, client, client)
}

func newClient(cfg *ClientConfig, emb embeddingsAPI, chat chatAPI) (*OpenAIClient, error) {
	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.TruncateChars < 1 {
		return nil, fmt.Errorf("truncate chars must be positive, got %d", cfg.TruncateChars)
	}

	limit := rate.Inf
	if cfg.BatchDelay > 0 {
		limit = rate.Every(cfg.BatchDelay)
	}

	return &OpenAIClient{
		embeddings: emb,
		chat:       chat,
		cfg:        *cfg,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// EmbeddingModel returns the configured embedding model name
func (c *OpenAIClient) EmbeddingModel() string {
	return string(c.cfg.EmbeddingModel)
}

// Truncate shortens s to at most maxChars characters
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

// Embed returns one vector per input, index-aligned. Inputs are truncated
// and sent in fixed-size batches; any failed batch fails the whole call.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	inputs := lo.Map(texts, func(s string, _ int) string {
		return Truncate(s, c.cfg.TruncateChars)
	})
	batches := lo.Chunk(inputs, c.cfg.BatchSize)

	log.WithFields(log.Fields{
		"inputs":  len(inputs),
		"batches": len(batches),
		"model":   c.cfg.EmbeddingModel,
	}).Debug("embedding texts")

	all := make([][]float64, 0, len(inputs))
	for i, batch := range batches {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &EmbeddingServiceError{Batch: i + 1, BatchSize: len(batch), Err: err}
		}

		vectors, err := c.embedBatch(ctx, batch)
		if err != nil {
			return nil, &EmbeddingServiceError{Batch: i + 1, BatchSize: len(batch), Err: err}
		}
		all = append(all, vectors...)
	}

	return all, nil
}

func (c *OpenAIClient) embedBatch(ctx context.Context, batch []string) ([][]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, util.CalculateBackoff(c.cfg.RetryDelay, attempt)); err != nil {
				return nil, err
			}
		}

		vectors, err := c.requestEmbeddings(ctx, batch)
		if err == nil {
			return vectors, nil
		}
		if c.cfg.MaxRetries > 0 {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			log.WithError(err).WithField("attempt", attempt+1).Warn("embedding request failed")
		} else {
			lastErr = err
		}
	}

	return nil, lastErr
}

func (c *OpenAIClient) requestEmbeddings(ctx context.Context, batch []string) ([][]float64, error) {
	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.embeddings.CreateEmbeddings(reqCtx, openai.EmbeddingRequestStrings{
		Input: batch,
		Model: c.cfg.EmbeddingModel,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(batch) {
		return nil, errShortResult(len(batch), len(resp.Data))
	}

	vectors := make([][]float64, len(batch))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(batch) || vectors[d.Index] != nil {
			return nil, fmt.Errorf("unexpected embedding index %d", d.Index)
		}
		// Convert []float32 to []float64
		v := make([]float64, len(d.Embedding))
		for i, x := range d.Embedding {
			v[i] = float64(x)
		}
		vectors[d.Index] = v
	}

	return vectors, nil
}

// Complete sends messages to the chat model and returns the trimmed reply
func (c *OpenAIClient) Complete(ctx context.Context, messages []models.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.ChatModel,
		Messages: lo.Map(messages, func(m models.Message, _ int) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
		}),
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, util.CalculateBackoff(c.cfg.RetryDelay, attempt)); err != nil {
				return "", &ChatServiceError{Model: c.cfg.ChatModel, Err: err}
			}
		}

		reply, err := c.requestCompletion(ctx, req)
		if err == nil {
			return reply, nil
		}
		lastErr = err
	}

	return "", &ChatServiceError{Model: c.cfg.ChatModel, Err: lastErr}
}

func (c *OpenAIClient) requestCompletion(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	resp, err := c.chat.CreateChatCompletion(reqCtx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// requestContext bounds one API call by the configured timeout, if any
func (c *OpenAIClient) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
