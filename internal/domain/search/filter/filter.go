package filter

import (
	"fmt"
	"math"
	"strings"
)

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 128

// Expression is a structured filter: every must condition, at least one
// condition of each anyOf group, and no mustNot condition.
type Expression struct {
	must     []Condition
	anyOf    [][]Condition
	mustNot  []Condition
	distance *Origin
}

// NewExpression validates and creates a filter Expression. Empty anyOf groups are dropped.
func NewExpression(must []Condition, anyOf [][]Condition, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	groups := make([][]Condition, 0, len(anyOf))
	for i, g := range anyOf {
		if len(g) > MaxConditionsPerGroup {
			return Expression{}, fmt.Errorf("too many conditions in any_of group %d (max %d)", i, MaxConditionsPerGroup)
		}
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return Expression{must: must, anyOf: groups, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// AnyOf returns the disjunctive groups; each group is AND-ed with the rest.
func (e Expression) AnyOf() [][]Condition { return e.anyOf }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.anyOf) == 0 && len(e.mustNot) == 0
}

// WithDistanceSort returns a copy ordered by increasing distance from origin.
func (e Expression) WithDistanceSort(origin Origin) Expression {
	e.distance = &origin
	return e
}

// DistanceSort returns the ordering origin, if any.
func (e Expression) DistanceSort() (Origin, bool) {
	if e.distance == nil {
		return Origin{}, false
	}
	return *e.distance, true
}

// Kind enumerates condition types.
type Kind int

// Condition kinds.
const (
	KindMatch Kind = iota
	KindContains
	KindRange
	KindRadius
)

func (k Kind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindContains:
		return "contains"
	case KindRange:
		return "range"
	case KindRadius:
		return "radius"
	default:
		return "unknown"
	}
}

// Condition is a single filter clause over one indexed field.
type Condition struct {
	key       string
	kind      Kind
	value     string
	rangeExpr *Range
	radius    *Radius
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, kind: KindMatch, value: match}, nil
}

// NewBool creates an exact match on a boolean flag.
func NewBool(key string, v bool) (Condition, error) {
	if v {
		return NewMatch(key, "true")
	}
	return NewMatch(key, "false")
}

// NewContains creates a case-insensitive substring condition.
func NewContains(key, term string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return Condition{}, fmt.Errorf("contains term is required for key %q", key)
	}
	return Condition{key: key, kind: KindContains, value: term}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{key: key, kind: KindRange, rangeExpr: &r}, nil
}

// NewRadius creates a geographic radius condition.
func NewRadius(key string, r Radius) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if r.Meters <= 0 || math.IsNaN(r.Meters) || math.IsInf(r.Meters, 0) {
		return Condition{}, fmt.Errorf("radius must be positive, got %g", r.Meters)
	}
	return Condition{key: key, kind: KindRadius, radius: &r}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Kind returns the condition type.
func (c Condition) Kind() Kind { return c.kind }

// Match returns the exact match value.
func (c Condition) Match() string {
	if c.kind != KindMatch {
		return ""
	}
	return c.value
}

// Term returns the substring term of a contains condition.
func (c Condition) Term() string {
	if c.kind != KindContains {
		return ""
	}
	return c.value
}

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// Radius returns the geographic radius.
func (c Condition) Radius() *Radius { return c.radius }

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// Between creates an inclusive range [lo, hi].
func Between(lo, hi float64) (Range, error) {
	if lo > hi {
		return Range{}, fmt.Errorf("range lower bound %g exceeds upper bound %g", lo, hi)
	}
	return NewRangeFilter(nil, &lo, nil, &hi)
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// Radius is a circle on the Earth's surface.
type Radius struct {
	Lat    float64
	Lon    float64
	Meters float64
}

// Origin is the point results are ordered by distance from.
type Origin struct {
	Lat float64
	Lon float64
	// Field names the indexed GEO attribute to measure from.
	Field string
}
