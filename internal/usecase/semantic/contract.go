package semantic

import (
	"context"

	domcol "github.com/kailas-cloud/venuedex/internal/domain/collection"
	"github.com/kailas-cloud/venuedex/internal/domain/search/result"
)

// Embedder vectorizes the query text.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Catalog resolves a collection by name.
type Catalog interface {
	Get(ctx context.Context, name string) (domcol.Collection, error)
}

// Index runs nearest-neighbor queries against a collection's vector index.
type Index interface {
	SearchKNN(ctx context.Context, col domcol.Collection, vector []float32, k, efRuntime int) ([]result.Hit, error)
}
