package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is one product record from the input corpus. Every field is
// optional: a missing field simply contributes nothing to the indexes.
// Documents are read once by the pipeline and never retained.
type Document struct {
	URL             string      `json:"url,omitempty"`
	Title           string      `json:"title,omitempty"`
	Description     string      `json:"description,omitempty"`
	ProductFeatures FeatureList `json:"product_features,omitempty"`
	ProductReviews  []Review    `json:"product_reviews,omitempty"`
	Links           []string    `json:"links,omitempty"` // present in the crawl output, ignored by the pipeline
}

// ParseDocument unmarshals one corpus line into a Document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &doc, nil
}

// ProductFeature is a single key/value attribute of a product
// (e.g. "brand" -> "Nike", "made in" -> "France").
type ProductFeature struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FeatureList holds product features in their original document order.
// Order matters: attribute indexing uses the first matching key.
type FeatureList []ProductFeature

// UnmarshalJSON accepts either a JSON object (the usual crawl output
// shape, whose key order is preserved) or an array of {key, value}
// pairs. Non-string scalar values are stringified; null, object and
// array values are dropped.
func (fl *FeatureList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*fl = nil
		return nil
	}

	if trimmed[0] == '[' {
		var pairs []ProductFeature
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return fmt.Errorf("product_features: %w", err)
		}
		*fl = pairs
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("product_features: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("product_features: expected object or array, got %v", tok)
	}

	out := make(FeatureList, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("product_features: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("product_features: non-string key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("product_features[%q]: %w", key, err)
		}
		if value, ok := featureValueString(raw); ok {
			out = append(out, ProductFeature{Key: key, Value: value})
		}
	}

	*fl = out
	return nil
}

// MarshalJSON writes the list back as an ordered array of pairs.
func (fl FeatureList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]ProductFeature(fl))
}

func featureValueString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case 't', 'f':
		return string(trimmed), true
	case 'n', '{', '[':
		return "", false
	default: // number
		return string(trimmed), true
	}
}

// Review is a single customer review. Only the rating matters to the
// pipeline; a review without a usable numeric rating still counts
// toward the review total.
type Review struct {
	Rating *float64 `json:"rating,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// UnmarshalJSON tolerates absent, null, or non-numeric ratings: they
// all decode to a nil Rating rather than failing the document.
func (r *Review) UnmarshalJSON(data []byte) error {
	var raw struct {
		Rating json.RawMessage `json:"rating"`
		Text   string          `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Text = raw.Text
	r.Rating = nil
	if ratingJSON := bytes.TrimSpace(raw.Rating); len(ratingJSON) > 0 && !bytes.Equal(ratingJSON, []byte("null")) {
		var rating float64
		if err := json.Unmarshal(ratingJSON, &rating); err == nil {
			r.Rating = &rating
		}
	}
	return nil
}

// ReviewSummary is the per-product aggregation stored in the reviews
// index, used for ranking rather than retrieval.
type ReviewSummary struct {
	ReviewCount   int      `json:"review_count"`
	AverageRating *float64 `json:"average_rating"`
	LastRating    *float64 `json:"last_rating"`
}
