// Package artifact persists trained classifiers as zstd-compressed gob streams.
package artifact

import (
	"crypto/rand"
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/triage/pkg/triage/features"
	"github.com/cognicore/triage/pkg/triage/internalerr"
	"github.com/cognicore/triage/pkg/triage/model"
)

// Artifact is a fitted grid search plus what is needed to interpret its output.
type Artifact struct {
	ID         string
	CreatedAt  time.Time
	Categories []string
	// TestAccuracy is the held-out accuracy per category, aligned with Categories.
	TestAccuracy []float64
	Model        *model.GridSearch
}

// New stamps a fitted model with a fresh ULID.
func New(categories []string, m *model.GridSearch) *Artifact {
	now := time.Now().UTC()
	return &Artifact{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0)).String(),
		CreatedAt:  now,
		Categories: append([]string(nil), categories...),
		Model:      m,
	}
}

// Save writes a to path, replacing any existing file, and returns the number
// of bytes written.
func Save(path string, a *Artifact) (int64, error) {
	if a == nil || a.Model == nil || a.Model.Best == nil {
		return 0, fmt.Errorf("%w: artifact has no fitted model", internalerr.ErrNotFitted)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return 0, fmt.Errorf("zstd writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(a); err != nil {
		zw.Close()
		return 0, fmt.Errorf("encode artifact: %w", err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("flush artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close artifact: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Load reads an artifact and re-attaches the NLP components, which are not
// serialized.
func Load(path string, analyzer features.Analyzer, detector features.VerbDetector) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()

	var a Artifact
	if err := gob.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Model == nil || a.Model.Best == nil {
		return nil, fmt.Errorf("%w: artifact %s has no fitted model", internalerr.ErrNotFitted, a.ID)
	}
	a.Model.Bind(analyzer, detector)
	return &a, nil
}
