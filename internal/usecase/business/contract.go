package business

import (
	"context"
	"time"

	dombiz "github.com/kailas-cloud/venuedex/internal/domain/business"
)

// Repository is the business store consumed by the service.
type Repository interface {
	Upsert(ctx context.Context, b *dombiz.Business) (bool, error)
	UpsertMany(ctx context.Context, bs []dombiz.Business) error
	Get(ctx context.Context, alias string) (dombiz.Business, error)
	List(ctx context.Context) ([]dombiz.Business, error)
	SetVisited(ctx context.Context, alias string, visited bool) (dombiz.Business, error)
	SetEmbedding(ctx context.Context, alias string, vector []float32) error
	UpdatedSince(ctx context.Context, t time.Time, limit int) ([]dombiz.Business, error)
}

// Embedder computes a business vector from its weighted text.
type Embedder interface {
	EmbeddingForBusiness(ctx context.Context, b *dombiz.Business) ([]float32, error)
}
