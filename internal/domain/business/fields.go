package business

// Index field aliases addressable in store predicates.
const (
	FieldName          = "name"
	FieldNote          = "note"
	FieldCategoryAlias = "category_alias"
	FieldVisited       = "visited"
	FieldIsClaimed     = "is_claimed"
	FieldLatitude      = "latitude"
	FieldLongitude     = "longitude"
	FieldLocation      = "location"
	FieldUpdatedAt     = "updated_at"
	FieldVector        = "vector"
)
