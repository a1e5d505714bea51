// Package pipeline builds the five product index structures in a
// single ordered pass over a document record sequence.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/araffali/product-indexer/index"
	"github.com/araffali/product-indexer/internal/errors"
	"github.com/araffali/product-indexer/internal/reader"
	"github.com/araffali/product-indexer/internal/tokenizer"
	"github.com/araffali/product-indexer/internal/urlinfo"
	"github.com/araffali/product-indexer/model"
)

// state of a Builder. A builder runs exactly once: records are
// consumed strictly in input order, and once the sequence is exhausted
// the result is frozen.
type state int

const (
	stateReady state = iota
	stateRunning
	stateDone
)

// Diagnostic reports one malformed input record with enough detail to
// locate the offending line.
type Diagnostic struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// Result is the outcome of one pipeline run. Ownership of the index
// set passes to the caller; the pipeline never mutates it again.
type Result struct {
	Indexes *index.Set

	DocumentsIndexed int          // documents folded into the indexes
	DocumentsSkipped int          // parsed documents without a URL
	Diagnostics      []Diagnostic // one entry per malformed record
	Elapsed          time.Duration
}

// Builder is the pipeline coordinator. It owns the five accumulating
// index structures for the duration of one run and applies the
// malformed-record policy: report, skip, continue.
type Builder struct {
	log     *slog.Logger
	metrics *Metrics

	state  state
	result *Result
}

// NewBuilder creates a pipeline builder. logger must not be nil;
// metrics may be nil when no collection is wanted (tests, one-shot CLI
// runs without a scrape endpoint).
func NewBuilder(logger *slog.Logger, metrics *Metrics) *Builder {
	return &Builder{
		log:     logger.With("component", "pipeline"),
		metrics: metrics,
	}
}

// Run consumes the record sequence and accumulates the index set. A
// nil sequence violates the input contract and fails immediately; an
// empty one yields an empty, valid result. Run can be called once: a
// builder that has reached its terminal state returns ErrAlreadyRun.
func (b *Builder) Run(records []reader.Record) (*Result, error) {
	if b.state != stateReady {
		return nil, errors.ErrAlreadyRun
	}
	if records == nil {
		return nil, errors.ErrNilSource
	}
	b.state = stateRunning

	start := time.Now()
	result := &Result{
		Indexes:     index.NewSet(),
		Diagnostics: make([]Diagnostic, 0),
	}

	for _, record := range records {
		if record.Malformed() {
			b.log.Warn("skipping malformed record", "line", record.Line, "error", record.Err)
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Line:  record.Line,
				Error: record.Err.Error(),
			})
			if b.metrics != nil {
				b.metrics.RecordsMalformed.Inc()
			}
			continue
		}
		b.processDocument(result, record.Doc)
	}

	result.Elapsed = time.Since(start)
	if b.metrics != nil {
		b.metrics.BuildDuration.Observe(result.Elapsed.Seconds())
	}
	b.log.Info("pipeline run complete",
		"documents_indexed", result.DocumentsIndexed,
		"documents_skipped", result.DocumentsSkipped,
		"malformed_records", len(result.Diagnostics),
		"elapsed", result.Elapsed,
	)

	b.state = stateDone
	b.result = result
	return result, nil
}

// Result returns the frozen result of a completed run.
func (b *Builder) Result() (*Result, error) {
	if b.state != stateDone {
		return nil, errors.ErrNotDone
	}
	return b.result, nil
}

// processDocument folds one parsed document into the accumulating
// indexes. Missing optional fields contribute nothing; only a missing
// URL prevents indexing entirely, since the URL keys every structure.
func (b *Builder) processDocument(result *Result, doc *model.Document) {
	if doc == nil || doc.URL == "" {
		result.DocumentsSkipped++
		if b.metrics != nil {
			b.metrics.DocumentsSkipped.Inc()
		}
		b.log.Debug("skipping document without URL")
		return
	}

	// Informational only: product identity feeds no persisted index.
	if info := urlinfo.Parse(doc.URL); info.IsProduct() {
		b.log.Debug("product page", "url", doc.URL, "product_id", info.ProductID, "variant", info.Variant)
	}

	set := result.Indexes

	titleTokens := tokenizer.Normalize(doc.Title)
	set.Title.Add(doc.URL, titleTokens)

	descriptionTokens := tokenizer.Normalize(doc.Description)
	set.Description.Add(doc.URL, descriptionTokens)

	set.Brand.Add(doc.URL, doc.ProductFeatures)
	set.Origin.Add(doc.URL, doc.ProductFeatures)

	// Per-document summary: a later document with the same URL
	// replaces the earlier summary instead of merging into it.
	set.Reviews.Aggregate(doc.URL, doc.ProductReviews)

	result.DocumentsIndexed++
	if b.metrics != nil {
		b.metrics.DocumentsIndexed.Inc()
		b.metrics.TokensIndexed.WithLabelValues("title").Add(float64(len(titleTokens)))
		b.metrics.TokensIndexed.WithLabelValues("description").Add(float64(len(descriptionTokens)))
		b.metrics.ReviewsAggregated.Add(float64(len(doc.ProductReviews)))
	}
}
