// ABOUTME: Typed errors for the hosted embedding and chat completion services
// ABOUTME: Callers use errors.As to tell service failures from configuration problems
package llm

import "fmt"

// EmbeddingServiceError reports a failed embedding batch. The whole Embed
// call fails with it; no partial vectors are returned.
type EmbeddingServiceError struct {
	Batch     int // 1-based batch number
	BatchSize int
	Err       error
}

func (e *EmbeddingServiceError) Error() string {
	return fmt.Sprintf("embedding service error (batch %d, %d inputs): %v", e.Batch, e.BatchSize, e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error { return e.Err }

// ChatServiceError reports a failed chat completion
type ChatServiceError struct {
	Model string
	Err   error
}

func (e *ChatServiceError) Error() string {
	return fmt.Sprintf("chat completion error (model %s): %v", e.Model, e.Err)
}

func (e *ChatServiceError) Unwrap() error { return e.Err }

func errShortResult(want, got int) error {
	return fmt.Errorf("expected %d embeddings, got %d", want, got)
}
