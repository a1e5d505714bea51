// Package urlinfo extracts product identity from catalog URLs.
package urlinfo

import (
	"net/url"
	"strings"
)

// Info is what a product URL tells us about the page behind it. The
// zero value means "not a product page": listing and navigation pages
// have no product ID, and most product URLs carry no variant.
type Info struct {
	ProductID string `json:"product_id,omitempty"`
	Variant   string `json:"variant,omitempty"`
}

// IsProduct reports whether the URL pointed at a product page.
func (i Info) IsProduct() bool {
	return i.ProductID != ""
}

// Parse extracts the product ID and optional variant qualifier from a
// catalog URL. Product pages use paths of the form /product/<id>; the
// variant, when present, is the "variant" query parameter. Malformed
// or empty input yields the zero Info, never an error.
func Parse(rawURL string) Info {
	if rawURL == "" {
		return Info{}
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Info{}
	}

	var info Info
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) >= 2 && segments[len(segments)-2] == "product" {
		info.ProductID = segments[len(segments)-1]
	}
	info.Variant = parsed.Query().Get("variant")
	return info
}
