package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/venuedex/internal/domain"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
	"github.com/kailas-cloud/venuedex/internal/domain/search/filter"
	"github.com/kailas-cloud/venuedex/internal/domain/search/searchconfig"
)

// DefaultRadiusMeters applies to proximity searches without a maxDistance.
const DefaultRadiusMeters = 2000.0

// MaxTextTerms bounds textSearch; each term becomes a name and a note condition
// in the same OR group.
const MaxTextTerms = filter.MaxConditionsPerGroup / 2

// excludedCategory never narrows a category clause.
const excludedCategory = "restaurant"

// BuildPredicates converts a search configuration into a store predicate.
// Clauses are AND-ed; the text and category clauses are each one OR group.
// A proximity request with a user location wins over the viewport.
// It never touches the store.
func BuildPredicates(
	cfg searchconfig.Config, viewport *geo.Viewport, loc *geo.UserLocation, defaultRadius float64,
) (filter.Expression, error) {
	if defaultRadius <= 0 {
		defaultRadius = DefaultRadiusMeters
	}

	var must []filter.Condition
	var anyOf [][]filter.Condition

	text, err := textClause(cfg.TextSearch)
	if err != nil {
		return filter.Expression{}, err
	}
	if len(text) > 0 {
		anyOf = append(anyOf, text)
	}

	cats, err := categoryClause(cfg.Categories)
	if err != nil {
		return filter.Expression{}, err
	}
	if len(cats) > 0 {
		anyOf = append(anyOf, cats)
	}

	if cfg.Visited != nil {
		c, err := filter.NewBool(business.FieldVisited, *cfg.Visited)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}
	if cfg.IsClaimed != nil {
		c, err := filter.NewBool(business.FieldIsClaimed, *cfg.IsClaimed)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, c)
	}

	var origin *filter.Origin
	switch {
	case loc != nil && cfg.WantsProximity():
		meters := defaultRadius
		if cfg.Location != nil && cfg.Location.MaxDistance != nil && *cfg.Location.MaxDistance > 0 {
			meters = *cfg.Location.MaxDistance
		}
		c, err := filter.NewRadius(business.FieldLocation, filter.Radius{
			Lat: loc.Latitude, Lon: loc.Longitude, Meters: meters,
		})
		if err != nil {
			return filter.Expression{}, domain.NewValidationError("location.maxDistance", err.Error())
		}
		must = append(must, c)
		origin = &filter.Origin{
			Lat: loc.Latitude, Lon: loc.Longitude, Field: business.FieldLocation,
		}
	case viewport != nil:
		box, err := viewportClause(*viewport)
		if err != nil {
			return filter.Expression{}, err
		}
		must = append(must, box...)
	}

	expr, err := filter.NewExpression(must, anyOf, nil)
	if err != nil {
		return filter.Expression{}, domain.NewValidationError("searchConfig", err.Error())
	}
	if origin != nil {
		expr = expr.WithDistanceSort(*origin)
	}
	return expr, nil
}

// textClause matches every term against the name and, separately, the note.
func textClause(terms []string) ([]filter.Condition, error) {
	names := make([]filter.Condition, 0, len(terms))
	notes := make([]filter.Condition, 0, len(terms))
	for _, term := range terms {
		if strings.TrimSpace(term) == "" {
			continue
		}
		if len(names) == MaxTextTerms {
			return nil, domain.NewValidationError("textSearch", fmt.Sprintf("at most %d terms", MaxTextTerms))
		}
		n, err := filter.NewContains(business.FieldName, term)
		if err != nil {
			return nil, err
		}
		o, err := filter.NewContains(business.FieldNote, term)
		if err != nil {
			return nil, err
		}
		names = append(names, n)
		notes = append(notes, o)
	}
	return append(names, notes...), nil
}

func categoryClause(categories []string) ([]filter.Condition, error) {
	out := make([]filter.Condition, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || strings.EqualFold(c, excludedCategory) {
			continue
		}
		cond, err := filter.NewContains(business.FieldCategoryAlias, c)
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
	}
	return out, nil
}

func viewportClause(v geo.Viewport) ([]filter.Condition, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	lat, err := filter.Between(v.Southwest[1], v.Northeast[1])
	if err != nil {
		return nil, fmt.Errorf("viewport latitude: %w", err)
	}
	lng, err := filter.Between(v.Southwest[0], v.Northeast[0])
	if err != nil {
		return nil, fmt.Errorf("viewport longitude: %w", err)
	}
	latCond, err := filter.NewRange(business.FieldLatitude, lat)
	if err != nil {
		return nil, err
	}
	lngCond, err := filter.NewRange(business.FieldLongitude, lng)
	if err != nil {
		return nil, err
	}
	return []filter.Condition{latCond, lngCond}, nil
}

func hasDistanceSort(expr filter.Expression) bool {
	_, ok := expr.DistanceSort()
	return ok
}
