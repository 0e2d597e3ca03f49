package geo

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/venuedex/internal/domain"
)

func TestPoint_Accessors(t *testing.T) {
	p := NewPoint(37.7749, -122.4194)
	if p.Type != "Point" {
		t.Errorf("type = %q", p.Type)
	}
	if p.Lat() != 37.7749 || p.Lon() != -122.4194 {
		t.Errorf("unexpected coordinates %v", p.Coordinates)
	}
	if p.Coordinates[0] != -122.4194 {
		t.Errorf("coordinates must be [lng, lat], got %v", p.Coordinates)
	}
}

func TestViewport_Validate(t *testing.T) {
	tests := []struct {
		name    string
		vp      Viewport
		wantErr bool
	}{
		{"valid", Viewport{Southwest: [2]float64{-122.5, 37.7}, Northeast: [2]float64{-122.3, 37.8}}, false},
		{"lat inverted", Viewport{Southwest: [2]float64{-122.5, 37.8}, Northeast: [2]float64{-122.3, 37.7}}, true},
		{"lng inverted", Viewport{Southwest: [2]float64{-122.3, 37.7}, Northeast: [2]float64{-122.5, 37.8}}, true},
		{"lat equal", Viewport{Southwest: [2]float64{-122.5, 37.7}, Northeast: [2]float64{-122.3, 37.7}}, true},
		{"lng out of range", Viewport{Southwest: [2]float64{-181, 37.7}, Northeast: [2]float64{-122.3, 37.8}}, true},
		{"ne lng out of range", Viewport{Southwest: [2]float64{170, 10}, Northeast: [2]float64{190, 20}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vp.Validate()
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUserLocation_Validate(t *testing.T) {
	if err := (UserLocation{Latitude: 37.7749, Longitude: -122.4194}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (UserLocation{Latitude: 91, Longitude: 0}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateCoordinates(t *testing.T) {
	if !ValidateCoordinates(90, 180) {
		t.Error("bounds should be inclusive")
	}
	if ValidateCoordinates(-90.1, 0) {
		t.Error("lat -90.1 should be invalid")
	}
}
