package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/araffali/product-indexer/internal/errors"
	"github.com/araffali/product-indexer/internal/reader"
	"github.com/araffali/product-indexer/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func docRecord(line int, doc *model.Document) reader.Record {
	return reader.Record{Line: line, Doc: doc}
}

func rating(v float64) *float64 { return &v }

func TestRunEndToEnd(t *testing.T) {
	records := []reader.Record{
		docRecord(1, &model.Document{URL: "/product/1", Title: "Red Shoes"}),
		docRecord(2, &model.Document{URL: "/product/2", Title: "red shoes, size 9"}),
	}

	builder := NewBuilder(testLogger(), nil)
	result, err := builder.Run(records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DocumentsIndexed)
	assert.Empty(t, result.Diagnostics)

	title := result.Indexes.Title
	assert.Equal(t, []int{0}, title.Positions("red", "/product/1"))
	assert.Equal(t, []int{1}, title.Positions("shoes", "/product/1"))
	assert.Equal(t, []int{0}, title.Positions("red", "/product/2"))
	assert.Equal(t, []int{1}, title.Positions("shoes", "/product/2"))
	assert.Equal(t, []int{2}, title.Positions("size", "/product/2"))
	assert.Equal(t, []int{3}, title.Positions("9", "/product/2"))
}

func TestRunFullDocument(t *testing.T) {
	doc := &model.Document{
		URL:         "/product/10",
		Title:       "The Red Shoes",
		Description: "Best running shoes of the season",
		ProductFeatures: model.FeatureList{
			{Key: "brand", Value: "New Balance"},
			{Key: "made in", Value: "Viet Nam"},
		},
		ProductReviews: []model.Review{
			{Rating: rating(4)},
			{Rating: rating(2)},
			{Rating: nil},
		},
	}

	builder := NewBuilder(testLogger(), nil)
	result, err := builder.Run([]reader.Record{docRecord(1, doc)})
	require.NoError(t, err)

	set := result.Indexes
	// "The" is a stopword: positions start at "red".
	assert.Equal(t, []int{0}, set.Title.Positions("red", "/product/10"))
	assert.Equal(t, []int{1}, set.Title.Positions("shoes", "/product/10"))
	assert.Nil(t, set.Title.Positions("the", "/product/10"))

	assert.Equal(t, []int{0}, set.Description.Positions("best", "/product/10"))
	assert.Equal(t, []int{1}, set.Description.Positions("running", "/product/10"))

	assert.Equal(t, []string{"/product/10"}, set.Brand.URLs("newbalance"))
	assert.Equal(t, []string{"/product/10"}, set.Origin.URLs("vietnam"))

	summary, ok := set.Reviews.Summary("/product/10")
	require.True(t, ok)
	assert.Equal(t, 3, summary.ReviewCount)
	require.NotNil(t, summary.AverageRating)
	assert.InDelta(t, 3.0, *summary.AverageRating, 1e-9)
	assert.Nil(t, summary.LastRating, "final review carries no numeric rating")
}

func TestRunMalformedResilience(t *testing.T) {
	records := []reader.Record{
		docRecord(1, &model.Document{URL: "/product/1", Title: "Red Shoes"}),
		{Line: 2, Err: fmt.Errorf("line 2: unexpected end of JSON input")},
		docRecord(3, &model.Document{URL: "/product/2", Title: "Blue Hat"}),
	}

	builder := NewBuilder(testLogger(), nil)
	result, err := builder.Run(records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DocumentsIndexed)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, 2, result.Diagnostics[0].Line)
	assert.Contains(t, result.Diagnostics[0].Error, "unexpected end")

	assert.NotNil(t, result.Indexes.Title.Positions("red", "/product/1"))
	assert.NotNil(t, result.Indexes.Title.Positions("blue", "/product/2"))
}

func TestRunNilSource(t *testing.T) {
	builder := NewBuilder(testLogger(), nil)
	_, err := builder.Run(nil)
	assert.ErrorIs(t, err, errors.ErrNilSource)
}

func TestRunEmptySequence(t *testing.T) {
	builder := NewBuilder(testLogger(), nil)
	result, err := builder.Run([]reader.Record{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.DocumentsIndexed)
	assert.Equal(t, 0, result.Indexes.Title.TokenCount())
}

func TestRunOnlyOnce(t *testing.T) {
	builder := NewBuilder(testLogger(), nil)
	_, err := builder.Run([]reader.Record{})
	require.NoError(t, err)

	_, err = builder.Run([]reader.Record{})
	assert.ErrorIs(t, err, errors.ErrAlreadyRun)

	// The frozen result stays available.
	result, err := builder.Result()
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestResultBeforeRun(t *testing.T) {
	builder := NewBuilder(testLogger(), nil)
	_, err := builder.Result()
	assert.ErrorIs(t, err, errors.ErrNotDone)
}

func TestRunSkipsDocumentsWithoutURL(t *testing.T) {
	records := []reader.Record{
		docRecord(1, &model.Document{Title: "Orphan Page"}),
		docRecord(2, &model.Document{URL: "/product/1", Title: "Red Shoes"}),
	}

	builder := NewBuilder(testLogger(), nil)
	result, err := builder.Run(records)
	require.NoError(t, err)

	assert.Equal(t, 1, result.DocumentsIndexed)
	assert.Equal(t, 1, result.DocumentsSkipped)
	assert.Nil(t, result.Indexes.Title.Positions("orphan", ""))
}

func TestRunDuplicateURLSemantics(t *testing.T) {
	records := []reader.Record{
		docRecord(1, &model.Document{
			URL:            "/product/1",
			Title:          "Red Shoes",
			ProductReviews: []model.Review{{Rating: rating(5)}, {Rating: rating(3)}},
		}),
		docRecord(2, &model.Document{
			URL:            "/product/1",
			Title:          "Crimson Shoes",
			ProductReviews: []model.Review{{Rating: rating(1)}},
		}),
	}

	builder := NewBuilder(testLogger(), nil)
	result, err := builder.Run(records)
	require.NoError(t, err)

	// Positional contributions accumulate across documents...
	title := result.Indexes.Title
	assert.Equal(t, []int{0}, title.Positions("red", "/product/1"))
	assert.Equal(t, []int{0}, title.Positions("crimson", "/product/1"))
	assert.Equal(t, []int{1, 1}, title.Positions("shoes", "/product/1"))

	// ...while the review summary is replaced wholesale.
	summary, ok := result.Indexes.Reviews.Summary("/product/1")
	require.True(t, ok)
	assert.Equal(t, 1, summary.ReviewCount)
	require.NotNil(t, summary.LastRating)
	assert.Equal(t, 1.0, *summary.LastRating)
}

func TestRunRecordsMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	records := []reader.Record{
		docRecord(1, &model.Document{URL: "/product/1", Title: "Red Shoes", ProductReviews: []model.Review{{Rating: rating(4)}}}),
		{Line: 2, Err: fmt.Errorf("line 2: bad json")},
		docRecord(3, &model.Document{Title: "no url"}),
	}

	builder := NewBuilder(testLogger(), metrics)
	_, err := builder.Run(records)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DocumentsIndexed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RecordsMalformed))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DocumentsSkipped))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.TokensIndexed.WithLabelValues("title")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReviewsAggregated))
}
