package index

import (
	"strings"

	"github.com/araffali/product-indexer/model"
)

// AttributeIndex maps a normalized product feature value (brand name,
// country of origin) to the ordered list of product URLs carrying that
// value. Lists preserve first-seen order and hold no duplicate URLs.
type AttributeIndex struct {
	Values map[string][]string `json:"values"`

	keys []string
	seen map[string]map[string]struct{}
}

// NewAttributeIndex creates an empty attribute index that matches the
// given feature keys case-insensitively (e.g. "brand", or "made in"
// for origin).
func NewAttributeIndex(keys ...string) *AttributeIndex {
	return &AttributeIndex{
		Values: make(map[string][]string),
		keys:   keys,
		seen:   make(map[string]map[string]struct{}),
	}
}

// Add scans the document's features for the first entry whose key
// matches one of the index's target keys and files the URL under the
// normalized value. Documents without a matching feature, or whose
// value normalizes to the empty string, contribute nothing.
func (ai *AttributeIndex) Add(url string, features model.FeatureList) {
	for _, feature := range features {
		if !ai.matches(feature.Key) {
			continue
		}
		value := NormalizeValue(feature.Value)
		if value == "" {
			return
		}
		if ai.seen[value] == nil {
			ai.seen[value] = make(map[string]struct{})
		}
		if _, dup := ai.seen[value][url]; !dup {
			ai.seen[value][url] = struct{}{}
			ai.Values[value] = append(ai.Values[value], url)
		}
		return // first matching feature only
	}
}

func (ai *AttributeIndex) matches(key string) bool {
	for _, target := range ai.keys {
		if strings.EqualFold(strings.TrimSpace(key), target) {
			return true
		}
	}
	return false
}

// URLs returns the URL list recorded for a normalized value, or nil.
func (ai *AttributeIndex) URLs(value string) []string {
	return ai.Values[value]
}

// ValueCount returns the number of distinct normalized values.
func (ai *AttributeIndex) ValueCount() int {
	return len(ai.Values)
}

// NormalizeValue makes semantically equal attribute values textually
// identical: lowercase, with all whitespace removed. "Eastern Bloc"
// and " eastern   bloc " both become "easternbloc".
func NormalizeValue(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), "")
}
