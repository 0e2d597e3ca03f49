// Package business stores bookmarked venues as JSON documents.
package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/kailas-cloud/venuedex/internal/db"
	"github.com/kailas-cloud/venuedex/internal/domain"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	domcol "github.com/kailas-cloud/venuedex/internal/domain/collection"
	"github.com/kailas-cloud/venuedex/internal/domain/search/filter"
)

// store is the consumer interface for business documents (ISP).
//
//nolint:interfacebloat // JSON CRUD + predicate search
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	SearchFilter(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error)
	TagValues(ctx context.Context, index, field string) ([]string, error)
}

// Repo implements the business store used by the search and business services.
type Repo struct {
	store store
	col   domcol.Collection
	now   func() time.Time
}

// New creates a business repository bound to the businesses collection.
func New(s store, col domcol.Collection) *Repo {
	return &Repo{store: s, col: col, now: time.Now}
}

// Collection returns the catalog entry the repository writes to.
func (r *Repo) Collection() domcol.Collection { return r.col }

// Upsert stores a record, stamping LastUpdated. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, b *business.Business) (bool, error) {
	if err := b.Validate(); err != nil {
		return false, err
	}
	key := r.col.DocumentKey(b.Alias)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	b.LastUpdated = r.now().UTC()
	data, err := toDocument(b)
	if err != nil {
		return false, fmt.Errorf("marshal business: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}
	return !exists, nil
}

// UpsertMany writes records in one pipelined round-trip.
func (r *Repo) UpsertMany(ctx context.Context, bs []business.Business) error {
	if len(bs) == 0 {
		return nil
	}
	now := r.now().UTC()
	items := make([]db.JSONSetItem, 0, len(bs))
	for i := range bs {
		b := &bs[i]
		if err := b.Validate(); err != nil {
			return fmt.Errorf("business %q: %w", b.Alias, err)
		}
		b.LastUpdated = now
		data, err := toDocument(b)
		if err != nil {
			return fmt.Errorf("marshal business %q: %w", b.Alias, err)
		}
		items = append(items, db.JSONSetItem{Key: r.col.DocumentKey(b.Alias), Path: "$", Data: data})
	}
	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("json.set multi: %w", err)
	}
	return nil
}

// Get returns a business by alias.
func (r *Repo) Get(ctx context.Context, alias string) (business.Business, error) {
	key := r.col.DocumentKey(alias)
	raw, err := r.store.JSONGet(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return business.Business{}, notFound(alias)
		}
		return business.Business{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	b, err := fromDocument(raw)
	if err != nil {
		return business.Business{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return b, nil
}

// List returns every stored business ordered by AddedIndex.
func (r *Repo) List(ctx context.Context) ([]business.Business, error) {
	keys, err := r.documentKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []business.Business{}, nil
	}

	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("json.get multi: %w", err)
	}

	out := make([]business.Business, 0, len(docs))
	for i, raw := range docs {
		if raw == nil {
			continue
		}
		b, err := fromDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AddedIndex < out[j].AddedIndex })
	return out, nil
}

// Aliases returns the aliases of every stored business.
func (r *Repo) Aliases(ctx context.Context) ([]string, error) {
	keys, err := r.documentKeys(ctx)
	if err != nil {
		return nil, err
	}
	aliases := make([]string, len(keys))
	for i, k := range keys {
		aliases[i] = r.col.DocumentID(k)
	}
	sort.Strings(aliases)
	return aliases, nil
}

// SetVisited flips the visited flag and returns the updated record.
func (r *Repo) SetVisited(ctx context.Context, alias string, visited bool) (business.Business, error) {
	key := r.col.DocumentKey(alias)
	now := r.now().UTC()

	if err := r.store.JSONSet(ctx, key, "$.visited", []byte(strconv.FormatBool(visited))); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return business.Business{}, notFound(alias)
		}
		return business.Business{}, fmt.Errorf("json.set %s visited: %w", key, err)
	}
	if err := r.touch(ctx, key, now); err != nil {
		return business.Business{}, err
	}
	return r.Get(ctx, alias)
}

// SetEmbedding stores a freshly computed vector on an existing record.
func (r *Repo) SetEmbedding(ctx context.Context, alias string, vector []float32) error {
	if err := domain.ValidateVector(vector, r.col.VectorDim()); err != nil {
		return err
	}
	key := r.col.DocumentKey(alias)
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$.embedding", data); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return notFound(alias)
		}
		return fmt.Errorf("json.set %s embedding: %w", key, err)
	}
	return r.touch(ctx, key, r.now().UTC())
}

// Find executes a predicate expression and returns at most limit matches.
// Distance-sorted expressions come back nearest first.
func (r *Repo) Find(ctx context.Context, expr filter.Expression, limit int) ([]business.Match, error) {
	sr, err := r.store.SearchFilter(ctx, &db.FilterQuery{
		IndexName:    r.col.IndexName(),
		Filters:      expr,
		Limit:        limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, &domain.NotFoundError{Kind: "collection", Name: r.col.Name()}
		}
		return nil, fmt.Errorf("search %s: %w", r.col.Name(), err)
	}
	if sr == nil {
		return []business.Match{}, nil
	}

	out := make([]business.Match, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		raw := e.Fields["$"]
		if raw == "" {
			continue
		}
		b, err := fromDocument([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Key, err)
		}
		out = append(out, business.Match{Business: b, Distance: e.Distance})
	}
	return out, nil
}

// UpdatedSince returns businesses whose LastUpdated is strictly after t.
func (r *Repo) UpdatedSince(ctx context.Context, t time.Time, limit int) ([]business.Business, error) {
	// updated_at is second-granular; sub-second precision is re-checked below
	lo := float64(t.Unix())
	rng, err := filter.NewRangeFilter(nil, &lo, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("updated_at filter: %w", err)
	}
	cond, err := filter.NewRange(business.FieldUpdatedAt, rng)
	if err != nil {
		return nil, fmt.Errorf("updated_at filter: %w", err)
	}
	expr, err := filter.NewExpression([]filter.Condition{cond}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("updated_at filter: %w", err)
	}

	matches, err := r.Find(ctx, expr, limit)
	if err != nil {
		return nil, err
	}
	out := make([]business.Business, 0, len(matches))
	for _, m := range matches {
		if m.Business.LastUpdated.After(t) {
			out = append(out, m.Business)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastUpdated.Before(out[j].LastUpdated) })
	return out, nil
}

// Categories returns the distinct category aliases across stored businesses.
func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	vals, err := r.store.TagValues(ctx, r.col.IndexName(), business.FieldCategoryAlias)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, &domain.NotFoundError{Kind: "collection", Name: r.col.Name()}
		}
		return nil, fmt.Errorf("tag values %s: %w", business.FieldCategoryAlias, err)
	}
	return vals, nil
}

func (r *Repo) touch(ctx context.Context, key string, now time.Time) error {
	ts, err := json.Marshal(now)
	if err != nil {
		return fmt.Errorf("marshal timestamp: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$.lastUpdated", ts); err != nil {
		return fmt.Errorf("json.set %s lastUpdated: %w", key, err)
	}
	if err := r.store.JSONSet(ctx, key, "$.updated_at", []byte(strconv.FormatInt(now.Unix(), 10))); err != nil {
		return fmt.Errorf("json.set %s updated_at: %w", key, err)
	}
	return nil
}

func (r *Repo) documentKeys(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.col.KeyPrefix()+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.col.Name(), err)
	}
	return keys, nil
}

func notFound(alias string) error {
	return &domain.NotFoundError{Kind: "business", Name: alias}
}
