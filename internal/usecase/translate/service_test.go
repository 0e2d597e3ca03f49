package translate

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/venuedex/internal/domain"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterTranslatorMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockCompleter struct {
	resp  domain.Completion
	err   error
	calls int
	last  domain.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	m.calls++
	m.last = req
	return m.resp, m.err
}

func textReply(s string) domain.Completion {
	return domain.Completion{Blocks: []domain.ContentBlock{{Type: domain.BlockText, Text: s}}}
}

var sanFrancisco = &geo.UserLocation{Latitude: 37.7749, Longitude: -122.4194}

// --- Tests ---

func TestTranslate_NearMeWithLocation(t *testing.T) {
	c := &mockCompleter{resp: textReply(
		`{"categories":["italian","restaurant"],"useProximity":true,"location":{"near":[0,0]}}`,
	)}
	svc := New(c, "test-near", 0)

	cfg, err := svc.Translate(context.Background(), "italian restaurants near me",
		[]string{"italian", "mexican"}, sanFrancisco)
	require.NoError(t, err)

	assert.Equal(t, []string{"italian"}, cfg.Categories)
	require.True(t, cfg.WantsProximity())
	require.NotNil(t, cfg.Location)
	assert.Equal(t, [2]float64{-122.4194, 37.7749}, cfg.Location.Near)
	assert.Nil(t, cfg.Location.MaxDistance)
}

func TestTranslate_NearMeWithoutLocation(t *testing.T) {
	c := &mockCompleter{resp: textReply(
		`{"categories":["italian"],"useProximity":true,"location":{"near":[-122.4,37.7],"maxDistance":500}}`,
	)}
	svc := New(c, "test-noloc", 0)

	cfg, err := svc.Translate(context.Background(), "italian restaurants near me", []string{"italian"}, nil)
	require.NoError(t, err)

	assert.False(t, cfg.WantsProximity())
	assert.Nil(t, cfg.Location)
	assert.Contains(t, c.last.System, "No user location provided")
}

func TestTranslate_RequestShape(t *testing.T) {
	c := &mockCompleter{resp: textReply(`{}`)}
	svc := New(c, "test-shape", 0)

	_, err := svc.Translate(context.Background(), "cheap tacos", []string{"mexican", "taco"}, sanFrancisco)
	require.NoError(t, err)

	assert.Equal(t, 1, c.calls)
	assert.Zero(t, c.last.Temperature)
	assert.Equal(t, DefaultMaxTokens, c.last.MaxTokens)
	assert.Contains(t, c.last.System, "mexican, taco")
	assert.Contains(t, c.last.System, "latitude 37.7749, longitude -122.4194")
	assert.Contains(t, c.last.System, `"restaurant" is never a category`)
	assert.Equal(t, `Convert this search request to a search configuration: "cheap tacos"`, c.last.User)
}

func TestTranslate_UpstreamError(t *testing.T) {
	c := &mockCompleter{err: domain.ErrUpstreamUnavailable}
	svc := New(c, "test-upstream", 0)

	_, err := svc.Translate(context.Background(), "tacos", nil, nil)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, 1, c.calls, "no retry")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TranslatorErrorsTotal.WithLabelValues("test-upstream", "upstream")), 0)
}

func TestTranslate_NoTextBlock(t *testing.T) {
	c := &mockCompleter{resp: domain.Completion{Blocks: []domain.ContentBlock{{Type: domain.BlockToolUse}}}}
	svc := New(c, "test-content", 0)

	_, err := svc.Translate(context.Background(), "tacos", nil, nil)
	var fe *domain.UpstreamFormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "content", fe.Stage)
}

func TestTranslate_MalformedJSON(t *testing.T) {
	c := &mockCompleter{resp: textReply(`{"categories": [`)}
	svc := New(c, "test-json", 0)

	_, err := svc.Translate(context.Background(), "tacos", nil, nil)
	require.ErrorIs(t, err, domain.ErrUpstreamFormat)
	assert.False(t, errors.Is(err, domain.ErrValidation))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TranslatorErrorsTotal.WithLabelValues("test-json", "json")), 0)
}

func TestTranslate_SchemaMismatch(t *testing.T) {
	c := &mockCompleter{resp: textReply(`{"visited":"yes"}`)}
	svc := New(c, "test-schema", 0)

	_, err := svc.Translate(context.Background(), "tacos", nil, nil)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, errors.Is(err, domain.ErrUpstreamFormat))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.TranslatorErrorsTotal.WithLabelValues("test-schema", "schema")), 0)
}

func TestTranslate_TextSearchPassthrough(t *testing.T) {
	c := &mockCompleter{resp: textReply("```json\n{\"textSearch\":[\"al pastor\",\"patio\"],\"visited\":false}\n```")}
	svc := New(c, "test-text", 0)

	cfg, err := svc.Translate(context.Background(), "al pastor with a patio I haven't tried", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"al pastor", "patio"}, cfg.TextSearch)
	require.NotNil(t, cfg.Visited)
	assert.False(t, *cfg.Visited)
}

func TestIsGenericCategory(t *testing.T) {
	for _, c := range []string{"restaurant", "Restaurants", "  RESTAURANT "} {
		assert.True(t, IsGenericCategory(c), c)
	}
	for _, c := range []string{"italian", "restaurant_bar", ""} {
		assert.False(t, IsGenericCategory(c), c)
	}
}

func TestSystemPrompt_NoCategories(t *testing.T) {
	p := SystemPrompt(nil, nil)
	assert.True(t, strings.Contains(p, "Known categories: (none)"))
}
