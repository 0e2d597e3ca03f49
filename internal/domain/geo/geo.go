package geo

import (
	"fmt"

	"github.com/kailas-cloud/venuedex/internal/domain"
)

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Point is a GeoJSON point. Coordinates are [longitude, latitude].
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewPoint builds a GeoJSON point from latitude and longitude.
func NewPoint(lat, lon float64) Point {
	return Point{Type: "Point", Coordinates: [2]float64{lon, lat}}
}

// Lon returns the longitude.
func (p Point) Lon() float64 { return p.Coordinates[0] }

// Lat returns the latitude.
func (p Point) Lat() float64 { return p.Coordinates[1] }

// UserLocation is the caller's current position.
type UserLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks coordinate bounds.
func (u UserLocation) Validate() error {
	if !ValidateCoordinates(u.Latitude, u.Longitude) {
		return domain.NewValidationError("userLocation",
			fmt.Sprintf("coordinates out of range: %g, %g", u.Latitude, u.Longitude))
	}
	return nil
}

// Viewport is a map bounding box. Corners are [longitude, latitude].
type Viewport struct {
	Southwest [2]float64 `json:"southwest"`
	Northeast [2]float64 `json:"northeast"`
}

// Validate requires the northeast corner to strictly exceed the southwest
// corner on both axes and both longitudes to lie within [-180, 180].
func (v Viewport) Validate() error {
	swLng, swLat := v.Southwest[0], v.Southwest[1]
	neLng, neLat := v.Northeast[0], v.Northeast[1]

	if swLng < -180 || swLng > 180 || neLng < -180 || neLng > 180 {
		return domain.NewValidationError("viewport", "longitude must be within [-180, 180]")
	}
	if neLat <= swLat {
		return domain.NewValidationError("viewport", "northeast latitude must be greater than southwest latitude")
	}
	if neLng <= swLng {
		return domain.NewValidationError("viewport", "northeast longitude must be greater than southwest longitude")
	}
	return nil
}
