package collection

import (
	"fmt"
	"strconv"

	domcol "github.com/kailas-cloud/venuedex/internal/domain/collection"
)

// collectionToHash converts a catalog entry to a map for HSET.
func collectionToHash(col domcol.Collection) map[string]string {
	return map[string]string{
		"name":       col.Name(),
		"key_prefix": col.KeyPrefix(),
		"vector_dim": strconv.Itoa(col.VectorDim()),
		"created_at": strconv.FormatInt(col.CreatedAt(), 10),
	}
}

// collectionFromHash hydrates a catalog entry from an HGETALL result map.
func collectionFromHash(m map[string]string, defaultVectorDim int) (domcol.Collection, error) {
	name := m["name"]
	if name == "" {
		return domcol.Collection{}, fmt.Errorf("missing name")
	}

	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("invalid created_at: %w", err)
	}

	vectorDim := defaultVectorDim
	if dimStr, ok := m["vector_dim"]; ok && dimStr != "" {
		if parsed, err := strconv.Atoi(dimStr); err == nil {
			vectorDim = parsed
		}
	}

	return domcol.Reconstruct(name, m["key_prefix"], vectorDim, createdAt), nil
}
