// ABOUTME: Embedding vector helpers and scored retrieval results
// ABOUTME: Defines ScoredRecord and dimension/norm utilities for vector search
package models

import (
	"errors"
	"fmt"
	"math"
)

// ScoredRecord is a retrieval hit with its cosine similarity score
type ScoredRecord struct {
	KnowledgeRecord
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Norm returns the Euclidean norm of v
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the dot product of a and b. Callers must ensure equal length.
func Dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// ValidateDimension checks that vector is non-empty and has expectedDim entries
func ValidateDimension(vector []float64, expectedDim int) error {
	if len(vector) == 0 {
		return errors.New("embedding vector cannot be empty")
	}
	if len(vector) != expectedDim {
		return fmt.Errorf("dimension mismatch: expected %d, got %d", expectedDim, len(vector))
	}
	return nil
}
