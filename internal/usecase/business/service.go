// Package business manages stored venue records: upsert, visited flag,
// listing, change feeds and single-record embedding.
package business

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	dombiz "github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/logger"
)

// MaxBatchSize bounds a single UpsertMany call.
const MaxBatchSize = 500

// Service handles business record operations.
type Service struct {
	repo         Repository
	embed        Embedder
	maxUpdates   int
	maxBatchSize int
}

// New creates a business service. maxUpdates caps one change-feed page.
func New(repo Repository, embed Embedder, maxUpdates int) *Service {
	if maxUpdates <= 0 {
		maxUpdates = 500
	}
	return &Service{repo: repo, embed: embed, maxUpdates: maxUpdates, maxBatchSize: MaxBatchSize}
}

// Upsert stores b. When generateEmbedding is set, the vector is computed
// before the write and a failure leaves the store untouched.
// Returns true if the record was created.
func (s *Service) Upsert(ctx context.Context, b *dombiz.Business, generateEmbedding bool) (bool, error) {
	b.FillGeoPoint()
	if err := b.Validate(); err != nil {
		return false, err
	}

	if generateEmbedding {
		vec, err := s.embed.EmbeddingForBusiness(ctx, b)
		if err != nil {
			return false, err
		}
		b.Embedding = vec
	}

	created, err := s.repo.Upsert(ctx, b)
	if err != nil {
		return false, fmt.Errorf("upsert business: %w", err)
	}
	logger.FromContext(ctx).Debug("Business stored",
		zap.String("alias", b.Alias),
		zap.Bool("created", created),
		zap.Bool("embedded", b.HasEmbedding()),
	)
	return created, nil
}

// UpsertMany stores records in one round-trip without embedding them.
func (s *Service) UpsertMany(ctx context.Context, bs []dombiz.Business) error {
	if len(bs) > s.maxBatchSize {
		return fmt.Errorf("batch of %d exceeds %d records", len(bs), s.maxBatchSize)
	}
	for i := range bs {
		bs[i].FillGeoPoint()
	}
	if err := s.repo.UpsertMany(ctx, bs); err != nil {
		return fmt.Errorf("upsert businesses: %w", err)
	}
	return nil
}

// Get returns one business.
func (s *Service) Get(ctx context.Context, alias string) (dombiz.Business, error) {
	b, err := s.repo.Get(ctx, alias)
	if err != nil {
		return dombiz.Business{}, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

// List returns every business for a map load, without embeddings or hours.
func (s *Service) List(ctx context.Context) ([]dombiz.Business, error) {
	bs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	for i := range bs {
		bs[i].Embedding = nil
		if bs[i].Source != nil {
			src := *bs[i].Source
			src.Hours = nil
			bs[i].Source = &src
		}
	}
	return bs, nil
}

// UpdatedSince returns businesses changed strictly after t, oldest first.
func (s *Service) UpdatedSince(ctx context.Context, t time.Time) ([]dombiz.Business, error) {
	bs, err := s.repo.UpdatedSince(ctx, t, s.maxUpdates)
	if err != nil {
		return nil, fmt.Errorf("updated since: %w", err)
	}
	for i := range bs {
		bs[i].Embedding = nil
	}
	return bs, nil
}

// SetVisited flips the visited flag and returns the updated record.
func (s *Service) SetVisited(ctx context.Context, alias string, visited bool) (dombiz.Business, error) {
	b, err := s.repo.SetVisited(ctx, alias, visited)
	if err != nil {
		return dombiz.Business{}, fmt.Errorf("set visited: %w", err)
	}
	b.Embedding = nil
	return b, nil
}

// EmbedRecord computes the vector of b without touching the store.
func (s *Service) EmbedRecord(ctx context.Context, b *dombiz.Business) ([]float32, error) {
	return s.embed.EmbeddingForBusiness(ctx, b)
}

// EmbedStored recomputes and persists the vector of a stored business.
func (s *Service) EmbedStored(ctx context.Context, alias string) ([]float32, error) {
	b, err := s.repo.Get(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	vec, err := s.embed.EmbeddingForBusiness(ctx, &b)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetEmbedding(ctx, alias, vec); err != nil {
		return nil, fmt.Errorf("store embedding: %w", err)
	}
	return vec, nil
}
