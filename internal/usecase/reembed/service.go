// Package reembed regenerates stored business embeddings in bulk through a
// bounded worker pool.
package reembed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	dombatch "github.com/kailas-cloud/venuedex/internal/domain/batch"
	"github.com/kailas-cloud/venuedex/internal/logger"
	"github.com/kailas-cloud/venuedex/internal/metrics"
)

// DefaultConcurrency is the pool ceiling when none is configured.
const DefaultConcurrency = 5

// Service runs bulk embedding regeneration.
type Service struct {
	store       Store
	embed       Embedder
	concurrency int
	minInterval time.Duration
}

// New creates a regeneration service. concurrency caps simultaneous embedding
// computations; a positive minInterval spaces task starts.
func New(store Store, embed Embedder, concurrency int, minInterval time.Duration) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{store: store, embed: embed, concurrency: concurrency, minInterval: minInterval}
}

// Regenerate re-embeds the named businesses, or every stored business when
// aliases is empty. Results are positional and one failure never stops the run.
// Submission blocks while the pool is full, so work starts in submission order.
func (s *Service) Regenerate(ctx context.Context, aliases []string) ([]dombatch.Result, error) {
	if len(aliases) == 0 {
		all, err := s.store.Aliases(ctx)
		if err != nil {
			return nil, fmt.Errorf("list aliases: %w", err)
		}
		aliases = all
	}
	if len(aliases) == 0 {
		return []dombatch.Result{}, nil
	}

	pool, err := ants.NewPool(s.concurrency)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	defer pool.Release()

	var limiter *rate.Limiter
	if s.minInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(s.minInterval), 1)
	}

	log := logger.FromContext(ctx)
	results := make([]dombatch.Result, len(aliases))
	var wg sync.WaitGroup

	for i, alias := range aliases {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				markRemaining(results, aliases, i, err)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			markRemaining(results, aliases, i, err)
			break
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			metrics.ReembedInFlight.Inc()
			defer metrics.ReembedInFlight.Dec()
			results[i] = s.regenerateOne(ctx, alias)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = dombatch.NewError(alias, fmt.Errorf("submit: %w", submitErr))
		}
	}
	wg.Wait()

	for _, r := range results {
		metrics.ReembedItemsTotal.WithLabelValues(string(r.Status())).Inc()
		if r.Status() == dombatch.StatusError {
			log.Warn("Embedding regeneration failed", zap.String("alias", r.ID()), zap.Error(r.Err()))
		}
	}
	summary := dombatch.Summarize(results)
	log.Info("Embedding regeneration finished",
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return results, nil
}

func (s *Service) regenerateOne(ctx context.Context, alias string) dombatch.Result {
	b, err := s.store.Get(ctx, alias)
	if err != nil {
		return dombatch.NewError(alias, fmt.Errorf("get business: %w", err))
	}
	vec, err := s.embed.EmbeddingForBusiness(ctx, &b)
	if err != nil {
		return dombatch.NewError(alias, err)
	}
	if err := s.store.SetEmbedding(ctx, alias, vec); err != nil {
		return dombatch.NewError(alias, fmt.Errorf("store embedding: %w", err))
	}
	return dombatch.NewOK(alias)
}

func markRemaining(results []dombatch.Result, aliases []string, from int, err error) {
	for j := from; j < len(aliases); j++ {
		results[j] = dombatch.NewError(aliases[j], err)
	}
}
