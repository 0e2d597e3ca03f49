package domain

import (
	"context"
	"fmt"
	"math"
)

// EmbeddingDimensions is the fixed length of every stored and query vector.
const EmbeddingDimensions = 384

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// ValidateVector checks that v has exactly dim components and every one is finite.
func ValidateVector(v []float32, dim int) error {
	if len(v) != dim {
		return &DimensionError{Want: dim, Got: len(v)}
	}
	for i, f := range v {
		x := float64(f)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &DimensionError{Want: dim, Got: len(v), Reason: fmt.Sprintf("component %d is not finite", i)}
		}
	}
	return nil
}

// MeanPool averages a [batch][tokens][dim] tensor over the token axis and
// flattens the result. A single-input batch yields one dim-length vector.
func MeanPool(tensor [][][]float32) ([]float32, error) {
	if len(tensor) == 0 {
		return nil, &DimensionError{Reason: "empty batch"}
	}

	var out []float32
	for b, tokens := range tensor {
		if len(tokens) == 0 {
			return nil, &DimensionError{Reason: fmt.Sprintf("batch %d has no tokens", b)}
		}
		dim := len(tokens[0])
		sums := make([]float64, dim)
		for t, tok := range tokens {
			if len(tok) != dim {
				return nil, &DimensionError{Want: dim, Got: len(tok), Reason: fmt.Sprintf("ragged token %d", t)}
			}
			for i, f := range tok {
				sums[i] += float64(f)
			}
		}
		n := float64(len(tokens))
		for _, s := range sums {
			out = append(out, float32(s/n))
		}
	}
	return out, nil
}
