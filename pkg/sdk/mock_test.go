package venuedex

import (
	"context"

	dombatch "github.com/kailas-cloud/venuedex/internal/domain/batch"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/venuedex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/venuedex/internal/usecase/search"
	semanticuc "github.com/kailas-cloud/venuedex/internal/usecase/semantic"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, query string, vp *geo.Viewport, loc *geo.UserLocation) (searchuc.Response, error)
}

func (m *mockSearchUC) Search(
	ctx context.Context, query string, vp *geo.Viewport, loc *geo.UserLocation,
) (searchuc.Response, error) {
	return m.searchFn(ctx, query, vp, loc)
}

// --- semanticUseCase mock ---

type mockSemanticUC struct {
	hitsFn func(ctx context.Context, query, collection string, opts semanticuc.Options) ([]result.Hit, error)
}

func (m *mockSemanticUC) Hits(
	ctx context.Context, query, collection string, opts semanticuc.Options,
) ([]result.Hit, error) {
	return m.hitsFn(ctx, query, collection, opts)
}

// --- embeddingUseCase mock ---

type mockEmbeddingUC struct {
	generateFn func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbeddingUC) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return m.generateFn(ctx, text)
}

// --- businessUseCase mock ---

type mockBusinessUC struct {
	upsertFn      func(ctx context.Context, b *business.Business, embed bool) (bool, error)
	upsertManyFn  func(ctx context.Context, bs []business.Business) error
	embedStoredFn func(ctx context.Context, alias string) ([]float32, error)
}

func (m *mockBusinessUC) Upsert(ctx context.Context, b *business.Business, embed bool) (bool, error) {
	return m.upsertFn(ctx, b, embed)
}

func (m *mockBusinessUC) UpsertMany(ctx context.Context, bs []business.Business) error {
	return m.upsertManyFn(ctx, bs)
}

func (m *mockBusinessUC) EmbedStored(ctx context.Context, alias string) ([]float32, error) {
	return m.embedStoredFn(ctx, alias)
}

// --- reembedUseCase mock ---

type mockReembedUC struct {
	regenerateFn func(ctx context.Context, aliases []string) ([]dombatch.Result, error)
}

func (m *mockReembedUC) Regenerate(ctx context.Context, aliases []string) ([]dombatch.Result, error) {
	return m.regenerateFn(ctx, aliases)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- store mock ---

type mockStore struct {
	pingErr error
	closed  bool
}

func (m *mockStore) Ping(_ context.Context) error { return m.pingErr }
func (m *mockStore) Close() { m.closed = true }

// --- public backend mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockCompleter struct {
	fn func(ctx context.Context, system, user string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return m.fn(ctx, system, user)
}
