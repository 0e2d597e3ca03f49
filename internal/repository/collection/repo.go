package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/venuedex/internal/db"
	"github.com/kailas-cloud/venuedex/internal/domain"
	domcol "github.com/kailas-cloud/venuedex/internal/domain/collection"
)

// store is the consumer interface for the collection catalog (ISP).
//
//nolint:interfacebloat // catalog needs hash + index management operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo is the catalog of vector-indexed collections.
type Repo struct {
	store            store
	prefix           string
	defaultVectorDim int
}

// New creates a collection catalog. prefix is the global storage key prefix.
func New(s store, prefix string, defaultVectorDim int) *Repo {
	return &Repo{store: s, prefix: prefix, defaultVectorDim: defaultVectorDim}
}

// Ensure registers col and creates its FT index when either is missing.
// Calling it again for a registered, indexed collection is a no-op.
// On FT.CREATE failure, a freshly written catalog entry is rolled back via DEL.
func (r *Repo) Ensure(ctx context.Context, col domcol.Collection, def *db.IndexDefinition) error {
	if def == nil || def.Name != col.IndexName() {
		return fmt.Errorf("index definition does not belong to collection %s", col.Name())
	}

	metaKey := r.metaKey(col.Name())
	metaExists, err := r.store.Exists(ctx, metaKey)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	idxExists, err := r.store.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if metaExists && idxExists {
		return nil
	}

	// Step 1: HSET metadata
	if !metaExists {
		if err := r.store.HSet(ctx, metaKey, collectionToHash(col)); err != nil {
			return fmt.Errorf("hset collection %s: %w", col.Name(), err)
		}
	}

	if idxExists {
		return nil
	}

	// FT.CREATE, rolling back a fresh HSET on error
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		if metaExists {
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
		cleanupErr := r.store.Del(ctx, metaKey)
		return errors.Join(err, cleanupErr)
	}

	return nil
}

// Get retrieves a collection by name.
func (r *Repo) Get(ctx context.Context, name string) (domcol.Collection, error) {
	m, err := r.store.HGetAll(ctx, r.metaKey(name))
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("hgetall collection %s: %w", name, err)
	}
	if len(m) == 0 {
		return domcol.Collection{}, &domain.NotFoundError{Kind: "collection", Name: name}
	}

	return collectionFromHash(m, r.defaultVectorDim)
}

// List returns all collections sorted by CreatedAt.
func (r *Repo) List(ctx context.Context) ([]domcol.Collection, error) {
	keys, err := r.store.Scan(ctx, r.metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan collections: %w", err)
	}
	if len(keys) == 0 {
		return []domcol.Collection{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi collections: %w", err)
	}

	collections := make([]domcol.Collection, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		col, err := collectionFromHash(m, r.defaultVectorDim)
		if err != nil {
			return nil, fmt.Errorf("parse collection %s: %w", keys[i], err)
		}
		collections = append(collections, col)
	}

	sort.Slice(collections, func(i, j int) bool {
		return collections[i].CreatedAt() < collections[j].CreatedAt()
	})

	return collections, nil
}

// Key pattern: {prefix}collection:{name}
func (r *Repo) metaKey(name string) string {
	return fmt.Sprintf("%scollection:%s", r.prefix, name)
}
