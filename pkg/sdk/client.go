package venuedex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/venuedex/internal/app"
	dombatch "github.com/kailas-cloud/venuedex/internal/domain/batch"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/venuedex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/venuedex/internal/usecase/search"
	semanticuc "github.com/kailas-cloud/venuedex/internal/usecase/semantic"
)

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, query string, viewport *geo.Viewport, loc *geo.UserLocation) (searchuc.Response, error)
}

type semanticUseCase interface {
	Hits(ctx context.Context, query, collection string, opts semanticuc.Options) ([]result.Hit, error)
}

type embeddingUseCase interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type businessUseCase interface {
	Upsert(ctx context.Context, b *business.Business, generateEmbedding bool) (bool, error)
	UpsertMany(ctx context.Context, bs []business.Business) error
	EmbedStored(ctx context.Context, alias string) ([]float32, error)
}

type reembedUseCase interface {
	Regenerate(ctx context.Context, aliases []string) ([]dombatch.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type store interface {
	Ping(ctx context.Context) error
	Close()
}

// Client is the venuedex SDK entry point.
type Client struct {
	store       store
	searchSvc   searchUseCase
	semanticSvc semanticUseCase
	embedSvc    embeddingUseCase
	bizSvc      businessUseCase
	reembedSvc  reembedUseCase
	healthSvc   healthUseCase
	obs         *observer
}

// New creates a venuedex Client, connects to the database and ensures the
// businesses index. The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}

	cfg, err := cc.resolve()
	if err != nil {
		return nil, fmt.Errorf("venuedex: %w", err)
	}
	if len(cfg.Database.Addrs) == 0 {
		return nil, errors.New("venuedex: database address required (use WithRedis or WithEnvironment)")
	}

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	var ov app.Overrides
	if cc.embedder != nil {
		ov.Embedder = &embedderAdapter{inner: cc.embedder}
	}
	if cc.completer != nil {
		ov.Completer = &completerAdapter{inner: cc.completer}
	}

	a, err := app.New(ctx, cfg, ov, nil)
	if err != nil {
		return nil, fmt.Errorf("venuedex: %w", err)
	}

	return &Client{
		store:       a.Store,
		searchSvc:   a.Search,
		semanticSvc: a.Semantic,
		embedSvc:    a.Embeddings,
		bizSvc:      a.Businesses,
		reembedSvc:  a.Reembed,
		healthSvc:   a.Health,
		obs:         obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// TranslateAndSearch turns a free-text query into predicates and runs them.
// viewport and loc are optional.
func (c *Client) TranslateAndSearch(
	ctx context.Context, query string, viewport *Viewport, loc *UserLocation,
) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search.translate", start, err, "results", resp.TotalResults) }()

	resp, err = c.searchSvc.Search(ctx, query, viewport, loc)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}
	return resp, nil
}

// VectorSearch returns the documents of collection most similar to query.
// limit 0 selects the default; minScore is an exclusive lower bound.
func (c *Client) VectorSearch(
	ctx context.Context, collection, query string, limit int, minScore float64,
) (docs []ScoredDocument, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search.vector", start, err, "collection", collection, "results", len(docs)) }()

	hits, err := c.semanticSvc.Hits(ctx, query, collection, semanticuc.Options{Limit: limit, MinScore: minScore})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	docs = make([]ScoredDocument, len(hits))
	for i, h := range hits {
		docs[i] = ScoredDocument{ID: h.ID(), Score: h.Score(), Document: h.Raw()}
	}
	return docs, nil
}

// EmbedText vectorizes free text.
func (c *Client) EmbedText(ctx context.Context, text string) (vec []float32, err error) {
	start := time.Now()
	defer func() { c.obs.observe("embed.text", start, err) }()

	vec, err = c.embedSvc.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	return vec, nil
}

// EmbedRecord regenerates and stores the embedding of one stored business.
func (c *Client) EmbedRecord(ctx context.Context, alias string) (vec []float32, err error) {
	start := time.Now()
	defer func() { c.obs.observe("embed.record", start, err, "alias", alias) }()

	vec, err = c.bizSvc.EmbedStored(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("embed record %s: %w", alias, err)
	}
	return vec, nil
}

// Upsert stores b, generating its embedding first when embed is set.
// Returns true when the record was created.
func (c *Client) Upsert(ctx context.Context, b *Business, embed bool) (created bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("business.upsert", start, err, "alias", b.Alias) }()

	created, err = c.bizSvc.Upsert(ctx, b, embed)
	if err != nil {
		return false, fmt.Errorf("upsert %s: %w", b.Alias, err)
	}
	return created, nil
}

// UpsertMany stores records without embeddings in one round trip.
func (c *Client) UpsertMany(ctx context.Context, bs []Business) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("business.upsert_many", start, err, "count", len(bs)) }()

	if err = c.bizSvc.UpsertMany(ctx, bs); err != nil {
		return fmt.Errorf("upsert many: %w", err)
	}
	return nil
}

// Regenerate re-embeds the given records, or every stored record when none
// are given. Per-record failures are reported in the items, not as an error.
func (c *Client) Regenerate(ctx context.Context, aliases ...string) (report RegenerateReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("embed.regenerate", start, err, "total", report.Summary.Total) }()

	results, err := c.reembedSvc.Regenerate(ctx, aliases)
	if err != nil {
		return RegenerateReport{}, fmt.Errorf("regenerate: %w", err)
	}

	report.Items = make([]ItemResult, len(results))
	for i, r := range results {
		report.Items[i] = ItemResult{Alias: r.ID(), Err: r.Err()}
	}
	report.Summary = dombatch.Summarize(results)
	return report, nil
}
