package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for pipeline runs.
type Metrics struct {
	DocumentsIndexed  prometheus.Counter
	RecordsMalformed  prometheus.Counter
	DocumentsSkipped  prometheus.Counter
	TokensIndexed     *prometheus.CounterVec
	BuildDuration     prometheus.Histogram
	ReviewsAggregated prometheus.Counter
}

// NewMetrics creates the pipeline collectors and registers them with
// reg (tests pass their own registry to avoid duplicate registration).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsIndexed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "indexer_documents_indexed_total",
				Help: "Documents folded into the index set.",
			},
		),
		RecordsMalformed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "indexer_records_malformed_total",
				Help: "Input lines that failed to parse and were skipped.",
			},
		),
		DocumentsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "indexer_documents_skipped_total",
				Help: "Parsed documents skipped because they carry no URL.",
			},
		),
		TokensIndexed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "indexer_tokens_indexed_total",
				Help: "Cleaned tokens recorded in the positional indexes, by field.",
			},
			[]string{"field"},
		),
		BuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "indexer_build_duration_seconds",
				Help:    "Wall-clock duration of full pipeline runs.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
		),
		ReviewsAggregated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "indexer_reviews_aggregated_total",
				Help: "Review entries folded into summaries.",
			},
		),
	}

	reg.MustRegister(
		m.DocumentsIndexed,
		m.RecordsMalformed,
		m.DocumentsSkipped,
		m.TokensIndexed,
		m.BuildDuration,
		m.ReviewsAggregated,
	)

	return m
}
