package index

import (
	"github.com/araffali/product-indexer/model"
)

// ReviewIndex maps a product URL to its review summary. Unlike the
// positional and attribute indexes, contributions are not additive: a
// later document with the same URL replaces the earlier summary, since
// each summary is computed from a single document's review list.
type ReviewIndex struct {
	Summaries map[string]model.ReviewSummary `json:"summaries"`
}

// NewReviewIndex creates an empty review index.
func NewReviewIndex() *ReviewIndex {
	return &ReviewIndex{
		Summaries: make(map[string]model.ReviewSummary),
	}
}

// Aggregate computes the summary of one document's review list and
// stores it for the URL, overwriting any existing summary.
func (ri *ReviewIndex) Aggregate(url string, reviews []model.Review) {
	ri.Summaries[url] = Summarize(reviews)
}

// Summary returns the stored summary for a URL. The second return
// value reports whether the URL was ever aggregated.
func (ri *ReviewIndex) Summary(url string) (model.ReviewSummary, bool) {
	summary, ok := ri.Summaries[url]
	return summary, ok
}

// Summarize reduces a review list to its summary statistics.
//
// ReviewCount counts every entry, rated or not. AverageRating is the
// mean of the numeric ratings and is nil when none exist. LastRating
// is the rating of the final entry in document order, nil when that
// entry carries no numeric rating, regardless of earlier entries.
func Summarize(reviews []model.Review) model.ReviewSummary {
	summary := model.ReviewSummary{ReviewCount: len(reviews)}

	var sum float64
	var rated int
	for _, review := range reviews {
		if review.Rating != nil {
			sum += *review.Rating
			rated++
		}
	}
	if rated > 0 {
		avg := sum / float64(rated)
		summary.AverageRating = &avg
	}
	if len(reviews) > 0 {
		if last := reviews[len(reviews)-1].Rating; last != nil {
			value := *last
			summary.LastRating = &value
		}
	}
	return summary
}
