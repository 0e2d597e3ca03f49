// Package business holds the bookmarked venue record and its derived text form.
package business

import (
	"strings"
	"time"

	"github.com/kailas-cloud/venuedex/internal/domain"
	"github.com/kailas-cloud/venuedex/internal/domain/geo"
)

// Business is a bookmarked venue. Source is nil until listing data has been attached.
type Business struct {
	Alias           string    `json:"alias"`
	URL             string    `json:"url,omitempty"`
	Note            string    `json:"note,omitempty"`
	AddedIndex      int       `json:"addedIndex"`
	Visited         bool      `json:"visited"`
	CollectionID    string    `json:"collectionId,omitempty"`
	CollectionTitle string    `json:"collectionTitle,omitempty"`
	LastUpdated     time.Time `json:"lastUpdated"`
	GeoPoint        geo.Point `json:"geoPoint"`
	Embedding       []float32 `json:"embedding,omitempty"`
	Source          *Source   `json:"source,omitempty"`
}

// Source is the listing-service detail block.
type Source struct {
	Name        string      `json:"name"`
	ImageURL    string      `json:"image_url,omitempty"`
	IsClaimed   bool        `json:"is_claimed"`
	IsClosed    bool        `json:"is_closed"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"review_count"`
	Coordinates Coordinates `json:"coordinates"`
	Location    Location    `json:"location"`
	Categories  []Category  `json:"categories,omitempty"`
	Photos      []string    `json:"photos,omitempty"`
	Hours       []Hours     `json:"hours,omitempty"`
}

// Coordinates is a latitude/longitude pair as reported by the listing service.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is the postal address of a venue.
type Location struct {
	Address1 string `json:"address1,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zip_code,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Category is a listing category such as {italian, Italian}.
type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// Hours is one weekly schedule.
type Hours struct {
	Open []OpenInterval `json:"open"`
}

// OpenInterval is a daily opening window. Day is 0 for Monday through 6 for Sunday.
// Start and End are "HHMM" wall-clock strings in the venue's timezone.
type OpenInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Day   int    `json:"day"`
}

// Validate checks the record invariants.
func (b *Business) Validate() error {
	if strings.TrimSpace(b.Alias) == "" {
		return domain.NewValidationError("alias", "is required")
	}
	if b.Embedding != nil {
		if err := domain.ValidateVector(b.Embedding, domain.EmbeddingDimensions); err != nil {
			return err
		}
	}
	if !geo.ValidateCoordinates(b.GeoPoint.Lat(), b.GeoPoint.Lon()) {
		return domain.NewValidationError("geoPoint", "coordinates out of range")
	}
	return nil
}

// FillGeoPoint derives the map point from listing coordinates when it is unset.
func (b *Business) FillGeoPoint() {
	if b.Source == nil || b.GeoPoint.Coordinates != [2]float64{} {
		return
	}
	b.GeoPoint = geo.NewPoint(b.Source.Coordinates.Latitude, b.Source.Coordinates.Longitude)
}

// HasEmbedding reports whether the record carries a vector.
func (b *Business) HasEmbedding() bool { return len(b.Embedding) > 0 }

// CategoryAliases returns the category aliases in listing order.
func (s *Source) CategoryAliases() []string {
	out := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		if c.Alias != "" {
			out = append(out, c.Alias)
		}
	}
	return out
}

// CategoryTitles returns the category titles in listing order.
func (s *Source) CategoryTitles() []string {
	out := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		if c.Title != "" {
			out = append(out, c.Title)
		}
	}
	return out
}
