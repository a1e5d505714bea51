package model

import (
	"encoding/json"
	"testing"
)

func TestParseDocument(t *testing.T) {
	line := `{
		"url": "https://shop.example.com/product/10",
		"title": "Red Shoes",
		"description": "The best running shoes",
		"product_features": {"brand": "Nike", "made in": "Vietnam", "weight": 250},
		"product_reviews": [{"rating": 4, "text": "good"}, {"rating": null}],
		"links": ["https://shop.example.com/product/11"]
	}`

	doc, err := ParseDocument([]byte(line))
	if err != nil {
		t.Fatalf("ParseDocument returned error: %v", err)
	}
	if doc.URL != "https://shop.example.com/product/10" {
		t.Errorf("URL = %q", doc.URL)
	}
	if doc.Title != "Red Shoes" {
		t.Errorf("Title = %q", doc.Title)
	}

	want := FeatureList{
		{Key: "brand", Value: "Nike"},
		{Key: "made in", Value: "Vietnam"},
		{Key: "weight", Value: "250"},
	}
	if len(doc.ProductFeatures) != len(want) {
		t.Fatalf("ProductFeatures = %v, want %v", doc.ProductFeatures, want)
	}
	for i, feature := range want {
		if doc.ProductFeatures[i] != feature {
			t.Errorf("ProductFeatures[%d] = %v, want %v", i, doc.ProductFeatures[i], feature)
		}
	}

	if len(doc.ProductReviews) != 2 {
		t.Fatalf("ProductReviews length = %d, want 2", len(doc.ProductReviews))
	}
	if doc.ProductReviews[0].Rating == nil || *doc.ProductReviews[0].Rating != 4 {
		t.Errorf("first review rating = %v, want 4", doc.ProductReviews[0].Rating)
	}
	if doc.ProductReviews[1].Rating != nil {
		t.Errorf("null rating decoded to %v, want nil", *doc.ProductReviews[1].Rating)
	}
}

func TestParseDocumentMalformed(t *testing.T) {
	if _, err := ParseDocument([]byte(`{"url": "x", "title":`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := ParseDocument([]byte(`[1, 2, 3]`)); err == nil {
		t.Error("expected error for non-object document")
	}
}

func TestFeatureListPreservesObjectOrder(t *testing.T) {
	var fl FeatureList
	raw := `{"z": "last?", "a": "first?", "m": "middle?"}`
	if err := json.Unmarshal([]byte(raw), &fl); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	wantKeys := []string{"z", "a", "m"}
	if len(fl) != len(wantKeys) {
		t.Fatalf("got %d features, want %d", len(fl), len(wantKeys))
	}
	for i, key := range wantKeys {
		if fl[i].Key != key {
			t.Errorf("feature %d key = %q, want %q (document order lost)", i, fl[i].Key, key)
		}
	}
}

func TestFeatureListAcceptsPairArray(t *testing.T) {
	var fl FeatureList
	raw := `[{"key": "brand", "value": "Nike"}]`
	if err := json.Unmarshal([]byte(raw), &fl); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fl) != 1 || fl[0].Key != "brand" || fl[0].Value != "Nike" {
		t.Errorf("got %v", fl)
	}
}

func TestFeatureListDropsNonScalarValues(t *testing.T) {
	var fl FeatureList
	raw := `{"brand": "Nike", "dimensions": {"w": 1}, "tags": ["a"], "discontinued": null}`
	if err := json.Unmarshal([]byte(raw), &fl); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fl) != 1 || fl[0].Key != "brand" {
		t.Errorf("got %v, want only the brand feature", fl)
	}
}

func TestReviewRatingTolerance(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{"integer rating", `{"rating": 4}`, rating(4)},
		{"float rating", `{"rating": 3.5}`, rating(3.5)},
		{"null rating", `{"rating": null}`, nil},
		{"missing rating", `{"text": "nice"}`, nil},
		{"string rating", `{"rating": "five"}`, nil},
		{"boolean rating", `{"rating": true}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var review Review
			if err := json.Unmarshal([]byte(tt.raw), &review); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			switch {
			case review.Rating == nil && tt.want == nil:
			case review.Rating == nil || tt.want == nil:
				t.Errorf("Rating = %v, want %v", review.Rating, tt.want)
			case *review.Rating != *tt.want:
				t.Errorf("Rating = %v, want %v", *review.Rating, *tt.want)
			}
		})
	}
}

func rating(v float64) *float64 { return &v }
