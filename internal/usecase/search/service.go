// Package search answers free-text venue queries: translate, build predicates, execute.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/venuedex/internal/domain"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/domain/search/searchconfig"
	"github.com/kailas-cloud/venuedex/internal/logger"
)

// Options tunes the orchestrator.
type Options struct {
	DefaultRadiusMeters float64
	// MaxResults caps how many records one predicate query returns.
	MaxResults int
	// Timezone applies to open-hours checks of venues without their own.
	Timezone *time.Location
	// Now is the clock for open-hours checks; nil uses time.Now.
	Now func() time.Time
}

// Response is the outcome of one translated search.
type Response struct {
	Results      []business.Match    `json:"results"`
	SearchConfig searchconfig.Config `json:"searchConfig"`
	TotalResults int                 `json:"totalResults"`
}

// Service is the search orchestrator. It never calls the vector index;
// semantic search is a separate entry point.
type Service struct {
	translator Translator
	repo       Repository
	opts       Options
}

// New creates a search orchestrator.
func New(translator Translator, repo Repository, opts Options) *Service {
	if opts.DefaultRadiusMeters <= 0 {
		opts.DefaultRadiusMeters = DefaultRadiusMeters
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 500
	}
	if opts.Timezone == nil {
		opts.Timezone = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{translator: translator, repo: repo, opts: opts}
}

// Search translates query, builds predicates against viewport and user
// location, executes them and wraps the result set.
func (s *Service) Search(
	ctx context.Context, query string, viewport *geo.Viewport, loc *geo.UserLocation,
) (Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Response{}, domain.NewValidationError("query", "must not be empty")
	}
	if viewport != nil {
		if err := viewport.Validate(); err != nil {
			return Response{}, err
		}
	}
	if loc != nil {
		if err := loc.Validate(); err != nil {
			return Response{}, err
		}
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("load categories: %w", err)
	}

	cfg, err := s.translator.Translate(ctx, query, categories, loc)
	if err != nil {
		return Response{}, fmt.Errorf("translate: %w", err)
	}

	expr, err := BuildPredicates(cfg, viewport, loc, s.opts.DefaultRadiusMeters)
	if err != nil {
		return Response{}, fmt.Errorf("build predicates: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Debug("Executing search predicates",
		zap.Int("must", len(expr.Must())),
		zap.Int("any_of", len(expr.AnyOf())),
		zap.Bool("distance_sorted", hasDistanceSort(expr)),
		zap.Int("limit", s.opts.MaxResults),
	)

	matches, err := s.repo.Find(ctx, expr, s.opts.MaxResults)
	if err != nil {
		return Response{}, fmt.Errorf("find businesses: %w", err)
	}

	if cfg.WantsOpenNow() {
		matches = s.openNow(ctx, matches)
	}
	for i := range matches {
		matches[i].Embedding = nil
	}

	return Response{
		Results:      matches,
		SearchConfig: cfg,
		TotalResults: len(matches),
	}, nil
}

// openNow keeps venues whose weekly hours cover the current instant.
// Venues with unreadable hours are dropped and logged.
func (s *Service) openNow(ctx context.Context, matches []business.Match) []business.Match {
	now := s.opts.Now()
	kept := matches[:0]
	for _, m := range matches {
		open, err := m.Source.IsOpenAt(now, s.opts.Timezone)
		if err != nil {
			logger.FromContext(ctx).Warn("Unreadable opening hours",
				zap.String("alias", m.Alias), zap.Error(err))
			continue
		}
		if open {
			kept = append(kept, m)
		}
	}
	return kept
}
