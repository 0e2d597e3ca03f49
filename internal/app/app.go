// Package app is the composition root shared by the server, the SDK and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/venuedex/internal/config"
	dbRedis "github.com/kailas-cloud/venuedex/internal/db/redis"
	"github.com/kailas-cloud/venuedex/internal/domain"
	domcol "github.com/kailas-cloud/venuedex/internal/domain/collection"
	businessrepo "github.com/kailas-cloud/venuedex/internal/repository/business"
	collectionrepo "github.com/kailas-cloud/venuedex/internal/repository/collection"
	searchrepo "github.com/kailas-cloud/venuedex/internal/repository/search"
	anthropicLLM "github.com/kailas-cloud/venuedex/internal/transport/anthropic"
	openaiAPI "github.com/kailas-cloud/venuedex/internal/transport/openai"
	"github.com/kailas-cloud/venuedex/internal/transport/tei"
	businessuc "github.com/kailas-cloud/venuedex/internal/usecase/business"
	embeddinguc "github.com/kailas-cloud/venuedex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/venuedex/internal/usecase/health"
	reembeduc "github.com/kailas-cloud/venuedex/internal/usecase/reembed"
	searchuc "github.com/kailas-cloud/venuedex/internal/usecase/search"
	semanticuc "github.com/kailas-cloud/venuedex/internal/usecase/semantic"
	"github.com/kailas-cloud/venuedex/internal/usecase/translate"
)

// Overrides replace configured backends. Nil fields keep the configured ones.
type Overrides struct {
	Embedder  domain.Embedder
	Completer domain.Completer
}

// App holds the wired use cases.
type App struct {
	Store      *dbRedis.Store
	Collection domcol.Collection

	Businesses *businessuc.Service
	Search     *searchuc.Service
	Semantic   *semanticuc.Service
	Reembed    *reembeduc.Service
	Embeddings *embeddinguc.Generator
	Health     *healthuc.Service
}

// New connects to the store, ensures the businesses index and wires every use case.
func New(ctx context.Context, cfg config.Config, ov Overrides, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tz, err := time.LoadLocation(cfg.Search.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}

	a, err := wire(ctx, store, cfg, tz, ov, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

func wire(
	ctx context.Context, store *dbRedis.Store, cfg config.Config, tz *time.Location,
	ov Overrides, logger *zap.Logger,
) (*App, error) {
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		return nil, fmt.Errorf("database not ready: %w", err)
	}

	dim := cfg.Embedding.Dimensions
	col, err := domcol.New(cfg.Storage.KeyPrefix, domcol.Businesses, dim)
	if err != nil {
		return nil, fmt.Errorf("businesses collection: %w", err)
	}
	def, err := businessrepo.IndexDefinition(col, cfg.Index.HNSWM, cfg.Index.HNSWEFConstruct)
	if err != nil {
		return nil, fmt.Errorf("businesses index: %w", err)
	}

	collRepo := collectionrepo.New(store, cfg.Storage.KeyPrefix, dim)
	if err := collRepo.Ensure(ctx, col, def); err != nil {
		return nil, fmt.Errorf("ensure businesses index: %w", err)
	}
	bizRepo := businessrepo.New(store, col)
	knnRepo := searchrepo.New(store)

	embedder := ov.Embedder
	if embedder == nil {
		if embedder, err = BuildEmbedder(cfg.Embedding, logger); err != nil {
			return nil, err
		}
	}
	instrumented := embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Embedding.Provider, cfg.Embedding.Model, logger)
	generator := embeddinguc.NewGenerator(instrumented, dim)

	completer := ov.Completer
	if completer == nil {
		if completer, err = BuildCompleter(cfg.LLM, logger); err != nil {
			return nil, err
		}
	}
	translator := translate.New(completer, cfg.LLM.Provider, cfg.LLM.MaxTokens)

	logger.Info("Backends wired",
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", dim),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
	)

	return &App{
		Store:      store,
		Collection: col,
		Businesses: businessuc.New(bizRepo, generator, cfg.Search.MaxResults),
		Search: searchuc.New(translator, bizRepo, searchuc.Options{
			DefaultRadiusMeters: cfg.Search.DefaultRadiusMeters,
			MaxResults:          cfg.Search.MaxResults,
			Timezone:            tz,
		}),
		Semantic:   semanticuc.New(generator, collRepo, knnRepo, dim),
		Reembed:    reembeduc.New(bizRepo, generator, cfg.Reembed.Concurrency, cfg.Reembed.MinInterval()),
		Embeddings: generator,
		Health:     healthuc.New(store, instrumented),
	}, nil
}

// Close releases the store connection.
func (a *App) Close() {
	if a != nil && a.Store != nil {
		a.Store.Close()
	}
}

// BuildEmbedder selects the embedding transport.
func BuildEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) (domain.Embedder, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	switch cfg.Provider {
	case "tei":
		return tei.NewEmbedder(&tei.Config{
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Timeout:  timeout,
			Logger:   logger,
		}), nil
	case "openai":
		return openaiAPI.NewEmbedder(&openaiAPI.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   cfg.Provider,
			Timeout:    timeout,
			Logger:     logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// BuildCompleter selects the completion transport.
func BuildCompleter(cfg config.LLMConfig, logger *zap.Logger) (domain.Completer, error) {
	switch cfg.Provider {
	case "anthropic":
		c, err := anthropicLLM.New(&anthropicLLM.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("anthropic completer: %w", err)
		}
		return c, nil
	case "openai":
		return openaiAPI.NewCompleter(&openaiAPI.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Logger:   logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
