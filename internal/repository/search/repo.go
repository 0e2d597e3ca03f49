package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/venuedex/internal/db"
	"github.com/kailas-cloud/venuedex/internal/domain"
	domcol "github.com/kailas-cloud/venuedex/internal/domain/collection"
	"github.com/kailas-cloud/venuedex/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/semantic.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN performs a nearest-neighbor search over a collection's vector index.
// Hits carry the whole stored JSON document, most similar first.
func (r *Repo) SearchKNN(
	ctx context.Context, col domcol.Collection,
	vector []float32, k, efRuntime int,
) ([]result.Hit, error) {
	q := &db.KNNQuery{
		IndexName:    col.IndexName(),
		Vector:       vector,
		K:            k,
		EFRuntime:    efRuntime,
		ReturnFields: []string{"$", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, &domain.NotFoundError{Kind: "collection", Name: col.Name()}
		}
		return nil, fmt.Errorf("search knn %s: %w", col.Name(), err)
	}

	return parseKNNResults(sr, col), nil
}

// parseKNNResults converts db.SearchResult into hits, keeping index order.
func parseKNNResults(sr *db.SearchResult, col domcol.Collection) []result.Hit {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		var raw json.RawMessage
		if doc := entry.Fields["$"]; doc != "" {
			raw = json.RawMessage(doc)
		}
		hits = append(hits, result.NewHit(col.DocumentID(entry.Key), entry.Score, raw))
	}
	return hits
}
