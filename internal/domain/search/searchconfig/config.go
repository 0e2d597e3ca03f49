// Package searchconfig defines the structured search configuration produced
// from a free-text query, and its two-stage parser.
package searchconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/venuedex/internal/domain"
)

// Config is the structured form of a natural-language search request.
// Nil fields were not specified.
type Config struct {
	TextSearch       []string  `json:"textSearch,omitempty"`
	Categories       []string  `json:"categories,omitempty"`
	Visited          *bool     `json:"visited,omitempty"`
	IsClaimed        *bool     `json:"isClaimed,omitempty"`
	ShouldCheckHours *bool     `json:"shouldCheckHours,omitempty"`
	UseProximity     *bool     `json:"useProximity,omitempty"`
	Location         *Location `json:"location,omitempty"`
}

// Location is a proximity hint. Near is [longitude, latitude]; MaxDistance is in meters.
type Location struct {
	Near        [2]float64 `json:"near"`
	MaxDistance *float64   `json:"maxDistance,omitempty"`
}

// WantsProximity reports whether the configuration asks for a radius search.
func (c *Config) WantsProximity() bool {
	return c.UseProximity != nil && *c.UseProximity
}

// WantsOpenNow reports whether results must be open at query time.
func (c *Config) WantsOpenNow() bool {
	return c.ShouldCheckHours != nil && *c.ShouldCheckHours
}

// Parse decodes a model response into a Config.
//
// Syntax failures (not JSON at all) yield *domain.UpstreamFormatError.
// Shape failures (valid JSON that does not match Config) yield *domain.ValidationError.
// Unknown keys are ignored; null is treated as absent.
func Parse(text string) (Config, error) {
	raw := []byte(stripFences(text))
	if !json.Valid(raw) {
		return Config{}, &domain.UpstreamFormatError{Stage: "json", Err: syntaxError(raw)}
	}
	return Validate(raw)
}

// Validate checks an already well-formed JSON document against the Config shape.
func Validate(raw []byte) (Config, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Config{}, domain.NewValidationError("", "search configuration must be a JSON object")
	}

	var cfg Config
	var err error

	if cfg.TextSearch, err = stringList(fields, "textSearch"); err != nil {
		return Config{}, err
	}
	if cfg.Categories, err = stringList(fields, "categories"); err != nil {
		return Config{}, err
	}
	if cfg.Visited, err = optionalBool(fields, "visited"); err != nil {
		return Config{}, err
	}
	if cfg.IsClaimed, err = optionalBool(fields, "isClaimed"); err != nil {
		return Config{}, err
	}
	if cfg.ShouldCheckHours, err = optionalBool(fields, "shouldCheckHours"); err != nil {
		return Config{}, err
	}
	if cfg.UseProximity, err = optionalBool(fields, "useProximity"); err != nil {
		return Config{}, err
	}
	if cfg.Location, err = location(fields["location"]); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func present(msg json.RawMessage) bool {
	return len(msg) > 0 && !bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

func stringList(fields map[string]json.RawMessage, key string) ([]string, error) {
	msg := fields[key]
	if !present(msg) {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(msg, &out); err != nil {
		return nil, domain.NewValidationError(key, "expected an array of strings")
	}
	return out, nil
}

func optionalBool(fields map[string]json.RawMessage, key string) (*bool, error) {
	msg := fields[key]
	if !present(msg) {
		return nil, nil
	}
	var b bool
	if err := json.Unmarshal(msg, &b); err != nil {
		return nil, domain.NewValidationError(key, "expected a boolean")
	}
	return &b, nil
}

func location(msg json.RawMessage) (*Location, error) {
	if !present(msg) {
		return nil, nil
	}

	var wire struct {
		Near        json.RawMessage `json:"near"`
		MaxDistance json.RawMessage `json:"maxDistance"`
	}
	if err := json.Unmarshal(msg, &wire); err != nil {
		return nil, domain.NewValidationError("location", "expected an object")
	}

	var near []float64
	if !present(wire.Near) {
		return nil, domain.NewValidationError("location.near", "is required")
	}
	if err := json.Unmarshal(wire.Near, &near); err != nil || len(near) != 2 {
		return nil, domain.NewValidationError("location.near", "expected [longitude, latitude]")
	}

	loc := &Location{Near: [2]float64{near[0], near[1]}}

	if present(wire.MaxDistance) {
		var d float64
		if err := json.Unmarshal(wire.MaxDistance, &d); err != nil {
			return nil, domain.NewValidationError("location.maxDistance", "expected a number")
		}
		if d <= 0 || math.IsInf(d, 0) || math.IsNaN(d) {
			return nil, domain.NewValidationError("location.maxDistance", fmt.Sprintf("must be positive, got %g", d))
		}
		loc.MaxDistance = &d
	}

	return loc, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func syntaxError(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return fmt.Errorf("invalid JSON")
}
