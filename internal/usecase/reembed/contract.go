package reembed

import (
	"context"

	"github.com/kailas-cloud/venuedex/internal/domain/business"
)

// Store reads businesses and persists regenerated vectors.
type Store interface {
	Aliases(ctx context.Context) ([]string, error)
	Get(ctx context.Context, alias string) (business.Business, error)
	SetEmbedding(ctx context.Context, alias string, vector []float32) error
}

// Embedder computes the vector of one business.
type Embedder interface {
	EmbeddingForBusiness(ctx context.Context, b *business.Business) ([]float32, error)
}
