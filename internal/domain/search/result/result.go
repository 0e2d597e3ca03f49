package result

import "encoding/json"

// Hit is a raw nearest-neighbor hit as returned by a vector index.
type Hit struct {
	id    string
	score float64
	raw   json.RawMessage
}

// NewHit creates a raw search hit. raw holds the stored document as JSON.
func NewHit(id string, score float64, raw json.RawMessage) Hit {
	return Hit{id: id, score: score, raw: raw}
}

// ID returns the stored document key.
func (h Hit) ID() string { return h.id }

// Score returns the similarity score, higher is closer.
func (h Hit) Score() float64 { return h.score }

// Raw returns the stored document JSON.
func (h Hit) Raw() json.RawMessage { return h.raw }

// Scored pairs a decoded document with its similarity score.
type Scored[T any] struct {
	Score    float64 `json:"score"`
	Document T       `json:"document"`
}

// Decode unmarshals the hit document into T.
func Decode[T any](h Hit) (Scored[T], error) {
	var doc T
	if len(h.raw) > 0 {
		if err := json.Unmarshal(h.raw, &doc); err != nil {
			return Scored[T]{}, err
		}
	}
	return Scored[T]{Score: h.score, Document: doc}, nil
}

// AboveThreshold keeps hits whose score strictly exceeds minScore, preserving order.
func AboveThreshold(hits []Hit, minScore float64) []Hit {
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.score > minScore {
			out = append(out, h)
		}
	}
	return out
}
