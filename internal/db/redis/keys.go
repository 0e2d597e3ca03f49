package redis

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/venuedex/internal/db"
)

// scanBatch is the COUNT hint sent with every SCAN page.
const scanBatch = 500

// Del removes key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.do(ctx, s.b().Del().Key(key).Build()).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: fmt.Errorf("%s: %w", key, err)}
	}
	return nil
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.do(ctx, s.b().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: fmt.Errorf("%s: %w", key, err)}
	}
	return n == 1, nil
}

// Scan walks the keyspace for keys matching pattern. SCAN may repeat a key
// across pages, so the result is de-duplicated in first-seen order.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string

	cursor := uint64(0)
	for {
		page, err := s.do(ctx, s.b().Scan().Cursor(cursor).Match(pattern).Count(scanBatch).Build()).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: fmt.Errorf("%s: %w", pattern, err)}
		}
		for _, k := range page.Elements {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		if page.Cursor == 0 {
			return keys, nil
		}
		cursor = page.Cursor
	}
}
