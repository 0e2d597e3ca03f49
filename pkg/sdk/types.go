package venuedex

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/venuedex/internal/domain/batch"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/domain/search/searchconfig"
	searchuc "github.com/kailas-cloud/venuedex/internal/usecase/search"
)

// Stored record and search types.
type (
	Business     = business.Business
	Source       = business.Source
	Match        = business.Match
	Viewport     = geo.Viewport
	UserLocation = geo.UserLocation
	SearchConfig = searchconfig.Config
	Summary      = batch.Summary
)

// SearchResponse is the outcome of TranslateAndSearch.
type SearchResponse = searchuc.Response

// ScoredDocument is one vector search hit with the stored document as JSON.
type ScoredDocument struct {
	ID       string
	Score    float64
	Document json.RawMessage
}

// ItemResult is the outcome of regenerating one record.
type ItemResult struct {
	Alias string
	Err   error
}

// RegenerateReport summarizes a bulk regeneration run.
type RegenerateReport struct {
	Items   []ItemResult
	Summary Summary
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}

// Decode unmarshals a vector search hit into T.
func Decode[T any](d ScoredDocument) (T, error) {
	var doc T
	if err := json.Unmarshal(d.Document, &doc); err != nil {
		return doc, fmt.Errorf("venuedex: decode %s: %w", d.ID, err)
	}
	return doc, nil
}
