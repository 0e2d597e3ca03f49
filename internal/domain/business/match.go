package business

// Match is a predicate search hit. Distance is in meters from the sort
// origin and is zero unless results were distance-sorted.
type Match struct {
	Business
	Distance float64 `json:"distance,omitempty"`
}
