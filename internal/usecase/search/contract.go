package search

import (
	"context"

	"github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/domain/search/filter"
	"github.com/kailas-cloud/venuedex/internal/domain/search/searchconfig"
)

// Translator turns free text into a search configuration.
type Translator interface {
	Translate(ctx context.Context, query string, categories []string, loc *geo.UserLocation) (searchconfig.Config, error)
}

// Repository executes predicates against stored businesses.
type Repository interface {
	Find(ctx context.Context, expr filter.Expression, limit int) ([]business.Match, error)
	Categories(ctx context.Context) ([]string, error)
}
