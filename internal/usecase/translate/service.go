// Package translate turns a free-text venue query into a structured search configuration.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/venuedex/internal/domain"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/domain/search/searchconfig"
	"github.com/kailas-cloud/venuedex/internal/logger"
	"github.com/kailas-cloud/venuedex/internal/metrics"
)

// DefaultMaxTokens bounds the completion length.
const DefaultMaxTokens = 1024

// Service is the query translator. It makes exactly one completion call per
// query with temperature 0 and never retries.
type Service struct {
	completer domain.Completer
	provider  string
	maxTokens int
}

// New creates a translator over a completion service.
func New(completer domain.Completer, provider string, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Service{completer: completer, provider: provider, maxTokens: maxTokens}
}

// Translate converts query into a search configuration.
//
// A response without a text block, or one that is not JSON, fails with
// *domain.UpstreamFormatError. JSON that does not fit the configuration
// shape fails with *domain.ValidationError.
func (s *Service) Translate(
	ctx context.Context, query string, categories []string, loc *geo.UserLocation,
) (searchconfig.Config, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	resp, err := s.completer.Complete(ctx, domain.CompletionRequest{
		System:      SystemPrompt(categories, loc),
		User:        UserMessage(query),
		Temperature: 0,
		MaxTokens:   s.maxTokens,
	})
	metrics.TranslatorRequestDuration.WithLabelValues(s.provider).Observe(time.Since(start).Seconds())
	if err != nil {
		s.fail("upstream")
		return searchconfig.Config{}, fmt.Errorf("complete: %w", err)
	}

	text, ok := resp.FirstText()
	if !ok {
		s.fail("content")
		return searchconfig.Config{}, &domain.UpstreamFormatError{Stage: "content", Err: errors.New("no text block in response")}
	}

	cfg, err := searchconfig.Parse(text)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamFormat) {
			s.fail("json")
		} else {
			s.fail("schema")
		}
		log.Debug("Untranslatable completion", zap.String("query", query), zap.String("text", text), zap.Error(err))
		return searchconfig.Config{}, err
	}

	cfg = normalize(cfg, loc)
	metrics.TranslatorRequestsTotal.WithLabelValues(s.provider, "success").Inc()

	log.Debug("Query translated",
		zap.String("query", query),
		zap.Any("search_config", cfg),
		zap.Duration("duration", time.Since(start)),
	)

	return cfg, nil
}

func (s *Service) fail(stage string) {
	metrics.TranslatorRequestsTotal.WithLabelValues(s.provider, "error").Inc()
	metrics.TranslatorErrorsTotal.WithLabelValues(s.provider, stage).Inc()
}

// normalize enforces the prompt rules on whatever the model returned.
func normalize(cfg searchconfig.Config, loc *geo.UserLocation) searchconfig.Config {
	if cfg.Categories != nil {
		kept := make([]string, 0, len(cfg.Categories))
		for _, c := range cfg.Categories {
			if !IsGenericCategory(c) {
				kept = append(kept, c)
			}
		}
		cfg.Categories = kept
	}

	if loc == nil {
		cfg.UseProximity = nil
		cfg.Location = nil
		return cfg
	}

	if cfg.WantsProximity() {
		if cfg.Location == nil {
			cfg.Location = &searchconfig.Location{}
		}
		cfg.Location.Near = [2]float64{loc.Longitude, loc.Latitude}
	}
	return cfg
}

// IsGenericCategory reports whether c is the catch-all "restaurant" term.
func IsGenericCategory(c string) bool {
	c = strings.ToLower(strings.TrimSpace(c))
	return c == "restaurant" || c == "restaurants"
}
