package chi

import (
	"context"
	"time"

	dombatch "github.com/kailas-cloud/venuedex/internal/domain/batch"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/venuedex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/venuedex/internal/usecase/search"
	semanticuc "github.com/kailas-cloud/venuedex/internal/usecase/semantic"
)

// Searcher answers free-text venue queries.
type Searcher interface {
	Search(ctx context.Context, query string, viewport *geo.Viewport, loc *geo.UserLocation) (searchuc.Response, error)
}

// SemanticSearcher runs nearest-neighbor queries over a named collection.
type SemanticSearcher interface {
	Hits(ctx context.Context, query, collection string, opts semanticuc.Options) ([]result.Hit, error)
}

// EmbeddingGenerator turns free text into a vector.
type EmbeddingGenerator interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// Businesses manages stored venue records.
type Businesses interface {
	Upsert(ctx context.Context, b *business.Business, generateEmbedding bool) (bool, error)
	Get(ctx context.Context, alias string) (business.Business, error)
	List(ctx context.Context) ([]business.Business, error)
	UpdatedSince(ctx context.Context, t time.Time) ([]business.Business, error)
	SetVisited(ctx context.Context, alias string, visited bool) (business.Business, error)
	EmbedStored(ctx context.Context, alias string) ([]float32, error)
}

// Reembedder regenerates stored embeddings in bulk.
type Reembedder interface {
	Regenerate(ctx context.Context, aliases []string) ([]dombatch.Result, error)
}

// HealthChecker reports dependency health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
