package chi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/venuedex/internal/domain"
	dombatch "github.com/kailas-cloud/venuedex/internal/domain/batch"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/domain/search/result"
	semanticuc "github.com/kailas-cloud/venuedex/internal/usecase/semantic"
)

// embeddingKey is the stored document key that carries the vector.
const embeddingKey = "embedding"

type searchRequest struct {
	Query        string            `json:"query"`
	Viewport     *geo.Viewport     `json:"viewport,omitempty"`
	UserLocation *geo.UserLocation `json:"userLocation,omitempty"`
}

type semanticRequest struct {
	Query    string   `json:"query"`
	Limit    *int     `json:"limit,omitempty"`
	MinScore *float64 `json:"minScore,omitempty"`
}

// options validates the optional knobs; absent values keep the service defaults.
func (r semanticRequest) options() (semanticuc.Options, error) {
	if strings.TrimSpace(r.Query) == "" {
		return semanticuc.Options{}, domain.NewValidationError("query", "must not be empty")
	}
	var opts semanticuc.Options
	if r.Limit != nil {
		if *r.Limit < 1 || *r.Limit > semanticuc.MaxLimit {
			return opts, domain.NewValidationError("limit",
				fmt.Sprintf("must be between 1 and %d", semanticuc.MaxLimit))
		}
		opts.Limit = *r.Limit
	}
	if r.MinScore != nil {
		if *r.MinScore < 0 || *r.MinScore >= 1 {
			return opts, domain.NewValidationError("minScore", "must be in [0, 1)")
		}
		opts.MinScore = *r.MinScore
	}
	return opts, nil
}

// semanticDocument is a stored document of any collection, passed through as-is.
type semanticDocument map[string]json.RawMessage

type semanticResponse struct {
	Results []result.Scored[semanticDocument] `json:"results"`
	Total   int                               `json:"total"`
}

type embeddingRequest struct {
	Text string `json:"text"`
}

type embeddingResponse struct {
	Embedding  []float32 `json:"embedding"`
	Dimensions int       `json:"dimensions"`
}

type businessListResponse struct {
	Businesses []business.Business `json:"businesses"`
	Total      int                 `json:"total"`
}

func newBusinessList(items []business.Business) businessListResponse {
	if items == nil {
		items = []business.Business{}
	}
	return businessListResponse{Businesses: items, Total: len(items)}
}

type visitedRequest struct {
	Visited *bool `json:"visited"`
}

type reembedRequest struct {
	Aliases []string `json:"aliases,omitempty"`
}

type reembedItem struct {
	Alias  string  `json:"alias"`
	Status string  `json:"status"`
	Error  *string `json:"error,omitempty"`
}

type reembedResponse struct {
	Items   []reembedItem    `json:"items"`
	Summary dombatch.Summary `json:"summary"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
