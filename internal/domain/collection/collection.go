// Package collection describes a named, vector-indexed set of stored documents.
package collection

import (
	"fmt"
	"regexp"
	"time"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Businesses is the collection holding bookmarked venues.
const Businesses = "businesses"

// Collection is a catalog entry (immutable value object).
type Collection struct {
	name      string
	keyPrefix string
	vectorDim int
	createdAt int64
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("collection name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates a Collection. storagePrefix is the global key
// prefix (e.g. "venuedex:"); documents live under <storagePrefix><name>:.
func New(storagePrefix, name string, vectorDim int) (Collection, error) {
	if err := validateName(name); err != nil {
		return Collection{}, err
	}
	if vectorDim <= 0 {
		return Collection{}, fmt.Errorf("vector dimension must be positive")
	}
	return Collection{
		name:      name,
		keyPrefix: storagePrefix + name + ":",
		vectorDim: vectorDim,
		createdAt: time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates a Collection without validation (storage hydration).
func Reconstruct(name, keyPrefix string, vectorDim int, createdAt int64) Collection {
	return Collection{name: name, keyPrefix: keyPrefix, vectorDim: vectorDim, createdAt: createdAt}
}

// Name returns the collection name.
func (c Collection) Name() string { return c.name }

// KeyPrefix returns the key prefix shared by every document in the collection.
func (c Collection) KeyPrefix() string { return c.keyPrefix }

// IndexName returns the FT index name.
func (c Collection) IndexName() string { return c.keyPrefix + "idx" }

// DocumentKey returns the storage key of a document.
func (c Collection) DocumentKey(id string) string { return c.keyPrefix + id }

// DocumentID strips the collection prefix from a storage key.
func (c Collection) DocumentID(key string) string {
	if len(key) >= len(c.keyPrefix) && key[:len(c.keyPrefix)] == c.keyPrefix {
		return key[len(c.keyPrefix):]
	}
	return key
}

// VectorDim returns the embedding dimension of the vector index.
func (c Collection) VectorDim() int { return c.vectorDim }

// CreatedAt returns the creation timestamp (unix millis).
func (c Collection) CreatedAt() int64 { return c.createdAt }
