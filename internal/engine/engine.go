// Package engine orchestrates full index builds: read the corpus, run
// the pipeline, persist the finished set, and answer stats queries
// about the last completed build.
package engine

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/araffali/product-indexer/index"
	indexerrors "github.com/araffali/product-indexer/internal/errors"
	"github.com/araffali/product-indexer/internal/jobs"
	"github.com/araffali/product-indexer/internal/persistence"
	"github.com/araffali/product-indexer/internal/pipeline"
	"github.com/araffali/product-indexer/internal/reader"
	"github.com/araffali/product-indexer/model"
)

// Engine runs builds and retains the most recent result. Builds are
// sequential internally (the pipeline is a single ordered pass); the
// mutex only guards the handoff of the finished result to API readers.
type Engine struct {
	mu        sync.RWMutex
	log       *slog.Logger
	metrics   *pipeline.Metrics
	jobs      *jobs.Manager
	outputDir string

	last      *pipeline.Result
	lastBuilt time.Time
}

// New creates an engine writing finished indexes to outputDir. metrics
// may be nil. A snapshot left in outputDir by a previous run is
// restored, so a restarted process serves the old indexes until the
// next build.
func New(outputDir string, logger *slog.Logger, metrics *pipeline.Metrics, jobManager *jobs.Manager) *Engine {
	e := &Engine{
		log:       logger.With("component", "engine"),
		metrics:   metrics,
		jobs:      jobManager,
		outputDir: outputDir,
	}
	e.restoreSnapshot()
	return e
}

// restoreSnapshot seeds the engine with a previously persisted build.
// A missing snapshot means a fresh start; an unreadable one is skipped
// with a warning rather than failing startup.
func (e *Engine) restoreSnapshot() {
	snap, err := persistence.LoadSnapshot(e.outputDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			e.log.Warn("ignoring unreadable index snapshot", "dir", e.outputDir, "error", err)
		}
		return
	}
	if snap.Result == nil || snap.Result.Indexes == nil {
		e.log.Warn("ignoring incomplete index snapshot", "dir", e.outputDir)
		return
	}
	if snap.Result.Diagnostics == nil {
		snap.Result.Diagnostics = make([]pipeline.Diagnostic, 0)
	}

	e.last = snap.Result
	e.lastBuilt = snap.BuiltAt
	e.log.Info("restored index snapshot",
		"dir", e.outputDir,
		"built_at", snap.BuiltAt,
		"documents_indexed", snap.Result.DocumentsIndexed,
	)
}

// BuildFromFile runs one complete build synchronously: read the JSONL
// corpus, run the pipeline, export the five indexes as JSON and save a
// gob snapshot. The finished result becomes the engine's last build.
func (e *Engine) BuildFromFile(inputPath string) (*pipeline.Result, error) {
	e.log.Info("starting build", "input", inputPath, "output", e.outputDir)

	records, err := reader.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	builder := pipeline.NewBuilder(e.log, e.metrics)
	result, err := builder.Run(records)
	if err != nil {
		return nil, err
	}

	builtAt := time.Now()
	if err := persistence.ExportJSON(e.outputDir, result.Indexes); err != nil {
		return nil, err
	}
	if err := persistence.SaveSnapshot(e.outputDir, &persistence.Snapshot{Result: result, BuiltAt: builtAt}); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.last = result
	e.lastBuilt = builtAt
	e.mu.Unlock()

	e.log.Info("build finished",
		"documents_indexed", result.DocumentsIndexed,
		"title_tokens", result.Indexes.Title.TokenCount(),
		"description_tokens", result.Indexes.Description.TokenCount(),
		"brands", result.Indexes.Brand.ValueCount(),
		"origins", result.Indexes.Origin.ValueCount(),
	)
	return result, nil
}

// BuildFromFileAsync schedules a build as a background job and returns
// the job ID immediately.
func (e *Engine) BuildFromFileAsync(inputPath string) (string, error) {
	jobID := e.jobs.CreateJob(model.JobTypeBuildIndexes, inputPath, nil)
	err := e.jobs.Execute(jobID, func() error {
		_, buildErr := e.BuildFromFile(inputPath)
		return buildErr
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

// ExportAsync schedules a re-export of the last completed build's JSON
// index files to dir and returns the job ID. Fails with
// ErrNoCompletedBuild when nothing has been built or restored yet.
func (e *Engine) ExportAsync(dir string) (string, error) {
	e.mu.RLock()
	last := e.last
	e.mu.RUnlock()
	if last == nil {
		return "", indexerrors.ErrNoCompletedBuild
	}

	jobID := e.jobs.CreateJob(model.JobTypeExportIndexes, "", map[string]string{"output_dir": dir})
	if err := e.jobs.Execute(jobID, func() error {
		return persistence.ExportJSON(dir, last.Indexes)
	}); err != nil {
		return "", err
	}
	return jobID, nil
}

// Stats describes the last completed build.
type Stats struct {
	BuiltAt           time.Time     `json:"built_at"`
	Elapsed           time.Duration `json:"elapsed_ns"`
	DocumentsIndexed  int           `json:"documents_indexed"`
	DocumentsSkipped  int           `json:"documents_skipped"`
	MalformedRecords  int           `json:"malformed_records"`
	TitleTokens       int           `json:"title_tokens"`
	TitleURLs         int           `json:"title_urls"`
	DescriptionTokens int           `json:"description_tokens"`
	DescriptionURLs   int           `json:"description_urls"`
	BrandValues       int           `json:"brand_values"`
	OriginValues      int           `json:"origin_values"`
	ReviewedProducts  int           `json:"reviewed_products"`
}

// Stats returns summary statistics of the last completed build, or
// ErrNoCompletedBuild when nothing has been built yet.
func (e *Engine) Stats() (Stats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.last == nil {
		return Stats{}, indexerrors.ErrNoCompletedBuild
	}
	set := e.last.Indexes
	return Stats{
		BuiltAt:           e.lastBuilt,
		Elapsed:           e.last.Elapsed,
		DocumentsIndexed:  e.last.DocumentsIndexed,
		DocumentsSkipped:  e.last.DocumentsSkipped,
		MalformedRecords:  len(e.last.Diagnostics),
		TitleTokens:       set.Title.TokenCount(),
		TitleURLs:         set.Title.URLCount(),
		DescriptionTokens: set.Description.TokenCount(),
		DescriptionURLs:   set.Description.URLCount(),
		BrandValues:       set.Brand.ValueCount(),
		OriginValues:      set.Origin.ValueCount(),
		ReviewedProducts:  len(set.Reviews.Summaries),
	}, nil
}

// Indexes returns the index set of the last completed build, or
// ErrNoCompletedBuild. The returned set is frozen; callers must treat
// it as read-only.
func (e *Engine) Indexes() (*index.Set, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.last == nil {
		return nil, indexerrors.ErrNoCompletedBuild
	}
	return e.last.Indexes, nil
}

// Diagnostics returns the malformed-record reports of the last build.
func (e *Engine) Diagnostics() ([]pipeline.Diagnostic, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.last == nil {
		return nil, indexerrors.ErrNoCompletedBuild
	}
	return e.last.Diagnostics, nil
}
