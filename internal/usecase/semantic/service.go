// Package semantic answers pure vector-similarity queries over any collection.
package semantic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/venuedex/internal/domain"
	"github.com/kailas-cloud/venuedex/internal/domain/search/result"
	"github.com/kailas-cloud/venuedex/internal/logger"
)

const (
	// DefaultLimit applies when the caller passes no limit.
	DefaultLimit = 20
	// MaxLimit bounds a single query.
	MaxLimit = 100
	// CandidateMultiplier is the HNSW over-fetch factor: limit*10 candidates
	// are explored to return limit results.
	CandidateMultiplier = 10
)

// Options narrows a similarity query. Zero values select the defaults.
type Options struct {
	Limit    int
	MinScore float64
}

// Service is the vector similarity searcher.
type Service struct {
	embedder Embedder
	catalog  Catalog
	index    Index
	dim      int
}

// New creates a similarity searcher for dim-length vectors.
func New(embedder Embedder, catalog Catalog, index Index, dim int) *Service {
	if dim <= 0 {
		dim = domain.EmbeddingDimensions
	}
	return &Service{embedder: embedder, catalog: catalog, index: index, dim: dim}
}

// Hits embeds query and returns the raw hits whose score strictly exceeds
// opts.MinScore, most similar first, in the order the index delivered them.
func (s *Service) Hits(ctx context.Context, query, collection string, opts Options) ([]result.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("query", "must not be empty")
	}
	limit, err := normalizeLimit(opts.Limit)
	if err != nil {
		return nil, err
	}
	if opts.MinScore < 0 || opts.MinScore >= 1 {
		return nil, domain.NewValidationError("minScore", "must be in [0, 1)")
	}

	col, err := s.catalog.Get(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	vec, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateVector(vec, s.dim); err != nil {
		return nil, err
	}
	if col.VectorDim() != len(vec) {
		return nil, &domain.DimensionError{Want: col.VectorDim(), Got: len(vec)}
	}

	hits, err := s.index.SearchKNN(ctx, col, vec, limit, limit*CandidateMultiplier)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	kept := result.AboveThreshold(hits, opts.MinScore)
	logger.FromContext(ctx).Debug("Similarity search",
		zap.String("collection", collection),
		zap.Int("limit", limit),
		zap.Float64("min_score", opts.MinScore),
		zap.Int("hits", len(hits)),
		zap.Int("kept", len(kept)),
	)
	return kept, nil
}

// Search runs Hits and decodes every kept document into T.
func Search[T any](ctx context.Context, s *Service, query, collection string, opts Options) ([]result.Scored[T], error) {
	hits, err := s.Hits(ctx, query, collection, opts)
	if err != nil {
		return nil, err
	}
	out := make([]result.Scored[T], 0, len(hits))
	for _, h := range hits {
		scored, err := result.Decode[T](h)
		if err != nil {
			return nil, fmt.Errorf("decode hit %s: %w", h.ID(), err)
		}
		out = append(out, scored)
	}
	return out, nil
}

func normalizeLimit(limit int) (int, error) {
	switch {
	case limit == 0:
		return DefaultLimit, nil
	case limit < 0 || limit > MaxLimit:
		return 0, domain.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", MaxLimit))
	default:
		return limit, nil
	}
}
