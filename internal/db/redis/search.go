package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/venuedex/internal/db"
	"github.com/kailas-cloud/venuedex/internal/domain/search/filter"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	queryStr := fmt.Sprintf("*=>[KNN %d @vector $BLOB]", q.K)
	if q.EFRuntime > 0 {
		queryStr = fmt.Sprintf("*=>[KNN %d @vector $BLOB EF_RUNTIME %d]", q.K, q.EFRuntime)
	}

	args := []string{q.IndexName, queryStr}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args,
		"SORTBY", "__vector_score",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, searchError(db.OpSearch, err)
	}

	return parseKNNResult(raw)
}

// distanceAlias names the computed distance column in FT.AGGREGATE rows.
const distanceAlias = "__distance"

// SearchFilter runs a predicate-only search. An expression carrying a distance
// sort is ordered on the server, so Limit keeps the nearest matches.
func (s *Store) SearchFilter(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	queryStr := buildFilter(q.Filters)
	if queryStr == "" {
		queryStr = "*"
	}
	if origin, ok := q.Filters.DistanceSort(); ok {
		return s.searchNearest(ctx, q, queryStr, origin)
	}

	args := []string{q.IndexName, queryStr}
	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(q.Limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, searchError(db.OpSearch, err)
	}
	return parseListResult(raw)
}

// searchNearest computes geodistance per match in FT.AGGREGATE and sorts on it
// before the limit applies.
func (s *Store) searchNearest(
	ctx context.Context, q *db.FilterQuery, queryStr string, origin filter.Origin,
) (*db.SearchResult, error) {
	if origin.Field == "" {
		return nil, fmt.Errorf("distance sort requires a geo field")
	}
	geoAttr := "@" + origin.Field
	load := withFields(append([]string{"@__key"}, q.ReturnFields...), geoAttr)
	limit := strconv.Itoa(q.Limit)

	args := []string{q.IndexName, queryStr, "LOAD", strconv.Itoa(len(load))}
	args = append(args, load...)
	args = append(args,
		"APPLY", fmt.Sprintf("geodistance(%s, %s, %s)", geoAttr, formatFloat(origin.Lon), formatFloat(origin.Lat)),
		"AS", distanceAlias,
		"SORTBY", "2", "@"+distanceAlias, "ASC", "MAX", limit,
		"LIMIT", "0", limit,
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.AGGREGATE").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, searchError(db.OpAggregate, err)
	}
	res, err := parseAggregateResult(raw)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(q.ReturnFields, geoAttr) {
		for i := range res.Entries {
			delete(res.Entries[i].Fields, origin.Field)
		}
	}
	return res, nil
}

// TagValues lists the distinct values of a TAG field via FT.TAGVALS.
func (s *Store) TagValues(ctx context.Context, index, field string) ([]string, error) {
	cmd := s.b().Arbitrary("FT.TAGVALS").Args(index, field).Build()
	vals, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		if isMissingIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpTagVals, Err: err}
	}
	slices.Sort(vals)
	return vals, nil
}

func searchError(op string, err error) error {
	if isMissingIndex(err) {
		return db.ErrIndexNotFound
	}
	return &db.Error{Op: op, Err: err}
}

// --- Result parsing ---

func parseKNNResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	res, err := parseListResult(raw)
	if err != nil {
		return nil, err
	}
	for i := range res.Entries {
		e := &res.Entries[i]
		if scoreStr, ok := e.Fields["__vector_score"]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				e.Score = max(0, 1.0-d) // cosine distance → similarity, clamped to [0,1]
			}
			delete(e.Fields, "__vector_score")
		}
	}
	return res, nil
}

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// parseAggregateResult reads RESP2 FT.AGGREGATE rows: [total, row1, row2, ...]
// where each row is a flat field/value list carrying __key and the distance.
func parseAggregateResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	entries := make([]db.SearchEntry, 0, len(raw)-1)
	for _, row := range raw[1:] {
		pairs, err := row.ToArray()
		if err != nil {
			continue
		}
		fields := parseFieldPairs(pairs)
		key := fields["__key"]
		if key == "" {
			continue
		}
		dist, _ := strconv.ParseFloat(fields[distanceAlias], 64)
		delete(fields, "__key")
		delete(fields, distanceAlias)
		entries = append(entries, db.SearchEntry{Key: key, Distance: dist, Fields: fields})
	}
	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func withFields(fields []string, extra ...string) []string {
	out := slices.Clone(fields)
	for _, f := range extra {
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// --- Filter building ---

// buildFilter translates filter.Expression into an FT.SEARCH query string.
// Empty expressions render as "".
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	var parts []string

	for _, cond := range expr.Must() {
		parts = append(parts, buildCondition(cond))
	}

	for _, group := range expr.AnyOf() {
		parts = append(parts, buildAnyOfGroup(group))
	}

	for _, cond := range expr.MustNot() {
		parts = append(parts, "-"+buildCondition(cond))
	}

	return strings.Join(parts, " ")
}

func buildCondition(cond filter.Condition) string {
	switch cond.Kind() {
	case filter.KindMatch:
		return buildTagFilter(cond.Key(), cond.Match())
	case filter.KindContains:
		return buildContainsFilter(cond.Key(), cond.Term())
	case filter.KindRange:
		return buildNumericFilter(cond.Key(), *cond.Range())
	case filter.KindRadius:
		return buildGeoFilter(cond.Key(), *cond.Radius())
	default:
		return ""
	}
}

func buildAnyOfGroup(conditions []filter.Condition) string {
	if len(conditions) == 1 {
		return buildCondition(conditions[0])
	}
	parts := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		parts = append(parts, buildCondition(cond))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

// buildContainsFilter renders a TAG wildcard match; TAG fields are case-insensitive by default.
func buildContainsFilter(key, term string) string {
	return fmt.Sprintf("@%s:{w'*%s*'}", key, wildcardEscaper.Replace(strings.ToLower(term)))
}

func buildNumericFilter(key string, r filter.Range) string {
	minBound := "-inf"
	maxBound := "+inf"

	if r.GT() != nil {
		minBound = "(" + formatFloat(*r.GT())
	} else if r.GTE() != nil {
		minBound = formatFloat(*r.GTE())
	}

	if r.LT() != nil {
		maxBound = "(" + formatFloat(*r.LT())
	} else if r.LTE() != nil {
		maxBound = formatFloat(*r.LTE())
	}

	return fmt.Sprintf("@%s:[%s %s]", key, minBound, maxBound)
}

func buildGeoFilter(key string, r filter.Radius) string {
	return fmt.Sprintf("@%s:[%s %s %s m]", key, formatFloat(r.Lon), formatFloat(r.Lat), formatFloat(r.Meters))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)

// wildcardEscaper neutralises characters that are special inside w'...'.
var wildcardEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`*`, `\*`,
	`?`, `\?`,
)

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
