// Package persistence writes finished index sets to disk: one
// pretty-printed JSON file per index for downstream consumers, plus a
// single gob snapshot for fast reload.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/araffali/product-indexer/index"
	"github.com/araffali/product-indexer/internal/pipeline"
)

// File names of the exported indexes inside the output directory.
const (
	TitleIndexFile       = "title_index.json"
	DescriptionIndexFile = "description_index.json"
	BrandIndexFile       = "brand_index.json"
	OriginIndexFile      = "origin_index.json"
	ReviewsIndexFile     = "reviews_index.json"
	SnapshotFile         = "indexes.gob"
)

// ExportJSON writes the five indexes of a finished set to dir, one
// JSON file each. The set is read-only by the time it reaches the
// writer, so the five files are written concurrently.
func ExportJSON(dir string, set *index.Set) error {
	if set == nil {
		return fmt.Errorf("nil index set")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	files := map[string]interface{}{
		TitleIndexFile:       set.Title.Postings,
		DescriptionIndexFile: set.Description.Postings,
		BrandIndexFile:       set.Brand.Values,
		OriginIndexFile:      set.Origin.Values,
		ReviewsIndexFile:     set.Reviews.Summaries,
	}

	var g errgroup.Group
	for name, payload := range files {
		name, payload := name, payload
		g.Go(func() error {
			return writeJSON(filepath.Join(dir, name), payload)
		})
	}
	return g.Wait()
}

// Snapshot is the gob-persisted form of a finished build: the full
// pipeline result plus the time it was built, so a restarted process
// can serve the previous indexes without rebuilding.
type Snapshot struct {
	Result  *pipeline.Result
	BuiltAt time.Time
}

// SaveSnapshot writes the finished build as one gob file under dir.
func SaveSnapshot(dir string, snap *Snapshot) error {
	if snap == nil || snap.Result == nil || snap.Result.Indexes == nil {
		return fmt.Errorf("nil snapshot")
	}
	return SaveGob(filepath.Join(dir, SnapshotFile), snap)
}

// LoadSnapshot reads a previously saved build from dir. Returns
// os.ErrNotExist when no snapshot has been written yet.
func LoadSnapshot(dir string) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := LoadGob(filepath.Join(dir, SnapshotFile), snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func writeJSON(path string, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0640); err != nil { // #nosec G306 -- index exports are not secrets
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
