package index

// Feature keys recognized by the attribute indexes, matched
// case-insensitively against document feature names.
var (
	BrandKeys  = []string{"brand"}
	OriginKeys = []string{"made in", "origin"}
)

// Set bundles the five index structures produced by one pipeline run:
// two positional text indexes, two attribute inverted indexes, and the
// per-product review summaries. A Set is mutated only while the
// pipeline runs; once the run completes it is read-only.
type Set struct {
	Title       *PositionalIndex `json:"title_index"`
	Description *PositionalIndex `json:"description_index"`
	Brand       *AttributeIndex  `json:"brand_index"`
	Origin      *AttributeIndex  `json:"origin_index"`
	Reviews     *ReviewIndex     `json:"reviews_index"`
}

// NewSet creates an empty index set ready for a pipeline run.
func NewSet() *Set {
	return &Set{
		Title:       NewPositionalIndex(),
		Description: NewPositionalIndex(),
		Brand:       NewAttributeIndex(BrandKeys...),
		Origin:      NewAttributeIndex(OriginKeys...),
		Reviews:     NewReviewIndex(),
	}
}
