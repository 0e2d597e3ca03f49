package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/venuedex/internal/db"
)

// errNoFields rejects an HSET that would carry no field/value pairs.
var errNoFields = errors.New("no fields to set")

// HSet writes fields into the hash at key. Fields are sent in sorted order so
// the command is stable across runs.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("%s: %w", key, errNoFields)}
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	cmd := s.b().Hset().Key(key).FieldValue()
	for _, name := range names {
		cmd = cmd.FieldValue(name, fields[name])
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("%s: %w", key, err)}
	}
	return nil
}

// HGetAll reads the hash at key. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return hashFrom(s.do(ctx, s.b().Hgetall().Key(key).Build()), key)
}

// HGetAllMulti reads several hashes in one pipelined round-trip. The result is
// index-aligned with keys; the first failing key aborts the call.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	cmds := make(rueidis.Commands, 0, len(keys))
	for _, key := range keys {
		cmds = append(cmds, s.b().Hgetall().Key(key).Build())
	}

	out := make([]map[string]string, len(keys))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		m, err := hashFrom(res, keys[i])
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func hashFrom(res rueidis.RedisResult, key string) (map[string]string, error) {
	m, err := res.AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: fmt.Errorf("%s: %w", key, err)}
	}
	return m, nil
}
