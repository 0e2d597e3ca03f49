package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/venuedex/internal/domain"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
)

func vectorOf(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestGenerateEmbedding(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: vectorOf(domain.EmbeddingDimensions, 0.01)}}
	g := NewGenerator(inner, domain.EmbeddingDimensions)

	vec, err := g.GenerateEmbedding(context.Background(), "cheap tacos")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != domain.EmbeddingDimensions {
		t.Fatalf("expected %d dims, got %d", domain.EmbeddingDimensions, len(vec))
	}
	if inner.texts[0] != "cheap tacos" {
		t.Errorf("unexpected text %q", inner.texts[0])
	}
}

func TestGenerateEmbedding_EmptyTextIsValidInput(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: vectorOf(8, 0)}}
	g := NewGenerator(inner, 8)

	if _, err := g.GenerateEmbedding(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateEmbedding_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
	}{
		{"too short", vectorOf(383, 0.1)},
		{"too long", vectorOf(385, 0.1)},
		{"nan", append(vectorOf(383, 0.1), float32(math.NaN()))},
		{"inf", append(vectorOf(383, 0.1), float32(math.Inf(1)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&mockEmbedder{result: domain.EmbeddingResult{Embedding: tt.vec}}, domain.EmbeddingDimensions)
			_, err := g.GenerateEmbedding(context.Background(), "x")
			if !errors.Is(err, domain.ErrVectorDimMismatch) || !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected dimension validation error, got %v", err)
			}
		})
	}
}

func TestGenerateEmbedding_PropagatesBackendError(t *testing.T) {
	g := NewGenerator(&mockEmbedder{err: domain.ErrUpstreamUnavailable}, domain.EmbeddingDimensions)

	_, err := g.GenerateEmbedding(context.Background(), "x")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestEmbeddingForBusiness_UsesWeightedText(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: vectorOf(4, 0.5)}}
	g := NewGenerator(inner, 4)

	b := &business.Business{
		Alias: "pho-house",
		Note:  "Rare Beef",
		Source: &business.Source{
			Name:       "Pho House",
			Categories: []business.Category{{Alias: "vietnamese", Title: "Vietnamese"}},
		},
	}

	if _, err := g.EmbeddingForBusiness(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := inner.texts[0], business.EmbeddingText(b); got != want {
		t.Errorf("embedded text = %q, want %q", got, want)
	}

	if _, err := g.EmbeddingForBusiness(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	if inner.texts[0] != inner.texts[1] {
		t.Error("weighted text must be deterministic")
	}
}
