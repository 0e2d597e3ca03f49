package business

import (
	"github.com/kailas-cloud/venuedex/internal/db"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	domcol "github.com/kailas-cloud/venuedex/internal/domain/collection"
)

// IndexDefinition builds the FT index over stored business documents.
func IndexDefinition(col domcol.Collection, hnswM, hnswEFConstruct int) (*db.IndexDefinition, error) {
	return db.NewIndex(col.IndexName(), col.KeyPrefix()).
		TagSeparated("$.source.name", business.FieldName, "|").
		TagSeparated("$.note", business.FieldNote, "|").
		Tag("$.source.categories[*].alias", business.FieldCategoryAlias).
		Tag("$.visited", business.FieldVisited).
		Tag("$.source.is_claimed", business.FieldIsClaimed).
		Numeric("$.geoPoint.coordinates[1]", business.FieldLatitude).
		Numeric("$.geoPoint.coordinates[0]", business.FieldLongitude).
		Numeric("$.updated_at", business.FieldUpdatedAt).
		Geo("$.geo", business.FieldLocation).
		VectorHNSW("$.embedding", business.FieldVector, col.VectorDim(), db.DistanceCosine, hnswM, hnswEFConstruct).
		Build()
}
