package db

import (
	"errors"
	"fmt"
	"strings"
)

// DistanceMetric is the similarity measure of a vector attribute.
type DistanceMetric string

// DistanceCosine makes FT.SEARCH report 1 - cos(a, b) as the vector score.
const DistanceCosine DistanceMetric = "COSINE"

// FieldKind is the schema type of an indexed attribute.
type FieldKind int

// Attribute kinds used by venue indexes.
const (
	FieldTag FieldKind = iota
	FieldNumeric
	FieldGeo
	FieldVector
)

func (k FieldKind) String() string {
	switch k {
	case FieldTag:
		return "TAG"
	case FieldNumeric:
		return "NUMERIC"
	case FieldGeo:
		return "GEO"
	case FieldVector:
		return "VECTOR"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// IndexField maps a JSONPath of the stored document to a query attribute.
type IndexField struct {
	Path string
	As   string
	Kind FieldKind

	// Separator splits TAG values held in a single string.
	Separator string

	// HNSW vector settings.
	Dim            int
	Distance       DistanceMetric
	M              int
	EFConstruction int
}

// IndexDefinition describes an FT.CREATE ... ON JSON index.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks that the definition can be sent to FT.CREATE.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if !strings.HasPrefix(f.Path, "$") {
			return fmt.Errorf("field %d: %q is not a JSONPath", i, f.Path)
		}
		if f.As == "" {
			return fmt.Errorf("field %s: attribute name is required", f.Path)
		}
		if _, dup := seen[f.As]; dup {
			return fmt.Errorf("duplicate attribute %q", f.As)
		}
		seen[f.As] = struct{}{}
		if f.Kind == FieldVector && f.Dim <= 0 {
			return fmt.Errorf("vector attribute %s requires positive DIM", f.As)
		}
	}
	return nil
}

// Field returns the attribute queried as name.
func (idx *IndexDefinition) Field(name string) (IndexField, bool) {
	for _, f := range idx.Fields {
		if f.As == name {
			return f, true
		}
	}
	return IndexField{}, false
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == ':' || r == '-':
		default:
			return false
		}
	}
	return true
}
