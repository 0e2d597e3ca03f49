package db

// IndexBuilder assembles an IndexDefinition one attribute at a time.
// Every attribute method takes the JSONPath and the name queries use.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a JSON index over keys with the given prefixes.
func NewIndex(name string, prefixes ...string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name, Prefixes: prefixes}}
}

func (b *IndexBuilder) add(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Tag indexes exact-match values; arrays index every element.
func (b *IndexBuilder) Tag(path, as string) *IndexBuilder {
	return b.add(IndexField{Path: path, As: as, Kind: FieldTag})
}

// TagSeparated indexes a string as one tag by choosing a separator it never contains.
func (b *IndexBuilder) TagSeparated(path, as, separator string) *IndexBuilder {
	return b.add(IndexField{Path: path, As: as, Kind: FieldTag, Separator: separator})
}

// Numeric indexes a number for range queries.
func (b *IndexBuilder) Numeric(path, as string) *IndexBuilder {
	return b.add(IndexField{Path: path, As: as, Kind: FieldNumeric})
}

// Geo indexes a "lon,lat" string for radius queries.
func (b *IndexBuilder) Geo(path, as string) *IndexBuilder {
	return b.add(IndexField{Path: path, As: as, Kind: FieldGeo})
}

// VectorHNSW indexes a FLOAT32 array with an HNSW graph.
func (b *IndexBuilder) VectorHNSW(path, as string, dim int, distance DistanceMetric, m, efConstruction int) *IndexBuilder {
	return b.add(IndexField{
		Path:           path,
		As:             as,
		Kind:           FieldVector,
		Dim:            dim,
		Distance:       distance,
		M:              m,
		EFConstruction: efConstruction,
	})
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	def := b.def
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}
