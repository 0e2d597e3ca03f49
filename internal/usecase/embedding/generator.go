// Package embedding turns text and business records into validated vectors.
package embedding

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/venuedex/internal/domain"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
)

// Generator computes embeddings. Every call reaches the backend; nothing is cached.
type Generator struct {
	embedder domain.Embedder
	dim      int
}

// NewGenerator creates a generator producing dim-length vectors.
func NewGenerator(embedder domain.Embedder, dim int) *Generator {
	return &Generator{embedder: embedder, dim: dim}
}

// Dimensions returns the vector length the generator guarantees.
func (g *Generator) Dimensions() int { return g.dim }

// GenerateEmbedding embeds text. The result always has exactly Dimensions
// finite components; anything else is a *domain.DimensionError.
func (g *Generator) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	res, err := g.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("generate embedding: %w", err)
	}
	if err := domain.ValidateVector(res.Embedding, g.dim); err != nil {
		return nil, err
	}
	return res.Embedding, nil
}

// EmbeddingForBusiness embeds the weighted text rendering of b.
func (g *Generator) EmbeddingForBusiness(ctx context.Context, b *business.Business) ([]float32, error) {
	return g.GenerateEmbedding(ctx, business.EmbeddingText(b))
}
