package db

import "github.com/kailas-cloud/venuedex/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	EFRuntime    int // HNSW candidate list size at query time; 0 keeps the index default
	ReturnFields []string
}

// FilterQuery is the input for a predicate-only search.
type FilterQuery struct {
	IndexName    string
	Filters      filter.Expression
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key      string
	Score    float64
	Distance float64 // meters from the sort origin; zero unless distance-sorted
	Fields   map[string]string
}
