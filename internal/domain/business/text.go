package business

import (
	"strconv"
	"strings"
)

// Weights for the embedding text fields.
const (
	WeightPrimary   = 3
	WeightSecondary = 2
	WeightTertiary  = 1
)

// HighlyRatedThreshold is the minimum rating that earns the "highly rated" label.
const HighlyRatedThreshold = 4.0

const textSeparator = " | "

// WeightedField is a value repeated Weight times in the embedding text.
// Preprocess, when set, is applied before the emptiness check.
type WeightedField struct {
	Value      string
	Weight     int
	Preprocess func(string) string
}

func (f WeightedField) render() string {
	v := f.Value
	if f.Preprocess != nil {
		v = f.Preprocess(v)
	}
	return strings.TrimSpace(v)
}

// WeightedFields returns the nine embedding fields of b in their fixed order.
// Fields that do not apply carry an empty value.
func WeightedFields(b *Business) []WeightedField {
	if b == nil {
		return nil
	}

	var (
		name, titles, aliases      string
		highlyRated, claimed       string
		cityState, ratingComposite string
	)
	if s := b.Source; s != nil {
		name = s.Name
		titles = strings.Join(s.CategoryTitles(), ", ")
		aliases = strings.Join(s.CategoryAliases(), " ")
		if s.Rating >= HighlyRatedThreshold {
			highlyRated = "highly rated restaurant"
		}
		claimed = "unclaimed"
		if s.IsClaimed {
			claimed = "claimed"
		}
		cityState = joinNonEmpty(", ", s.Location.City, s.Location.State)
		ratingComposite = "rating " + strconv.FormatFloat(s.Rating, 'f', -1, 64) +
			" stars with " + strconv.Itoa(s.ReviewCount) + " reviews"
	}

	visited := "not visited"
	if b.Visited {
		visited = "visited"
	}

	return []WeightedField{
		{Value: name, Weight: WeightPrimary},
		{Value: titles, Weight: WeightPrimary},
		{Value: b.Note, Weight: WeightPrimary},
		{Value: highlyRated, Weight: WeightSecondary},
		{Value: visited, Weight: WeightSecondary},
		{Value: claimed, Weight: WeightSecondary},
		{Value: cityState, Weight: WeightTertiary},
		{Value: ratingComposite, Weight: WeightTertiary},
		{Value: aliases, Weight: WeightTertiary},
	}
}

// EmbeddingText renders b as the lowercase weighted text fed to the embedding model.
// A nil record renders as the empty string.
func EmbeddingText(b *Business) string {
	return RenderWeighted(WeightedFields(b))
}

// RenderWeighted joins each non-empty field Weight times with " | " and lowercases the result.
func RenderWeighted(fields []WeightedField) string {
	var tokens []string
	for _, f := range fields {
		v := f.render()
		if v == "" {
			continue
		}
		for range f.Weight {
			tokens = append(tokens, v)
		}
	}
	return strings.ToLower(strings.Join(tokens, textSeparator))
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
