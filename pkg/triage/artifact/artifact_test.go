package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/triage/pkg/triage/internalerr"
	"github.com/cognicore/triage/pkg/triage/model"
)

type fieldsAnalyzer struct{}

func (fieldsAnalyzer) Tokenize(text string) []string { return strings.Fields(strings.ToLower(text)) }

type prefixDetector struct{}

func (prefixDetector) StartsWithVerb(text string) bool { return strings.HasPrefix(text, "send") }

func fitted(t *testing.T) *model.GridSearch {
	t.Helper()
	texts := []string{
		"flood water in the street",
		"send food to the shelter",
		"flood reached the shelter",
		"calm evening",
		"we need food",
		"another flood",
	}
	labels := [][]uint8{{1, 0}, {0, 1}, {1, 0}, {0, 0}, {0, 1}, {1, 0}}
	gs := model.NewGridSearch([]model.Params{{NEstimators: 5, LearningRate: 1}}, 2, []string{"the"}, fieldsAnalyzer{}, prefixDetector{}, 2, nil)
	require.NoError(t, gs.Fit(context.Background(), texts, labels))
	return gs
}

func TestRoundTrip(t *testing.T) {
	gs := fitted(t)
	a := New([]string{"floods", "food"}, gs)
	a.TestAccuracy = []float64{1, 0.5}
	_, err := ulid.Parse(a.ID)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "classifier.model")
	size, err := Save(path, a)
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	loaded, err := Load(path, fieldsAnalyzer{}, prefixDetector{})
	require.NoError(t, err)
	assert.Equal(t, a.ID, loaded.ID)
	assert.True(t, a.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, a.Categories, loaded.Categories)
	assert.Equal(t, a.TestAccuracy, loaded.TestAccuracy)
	assert.Equal(t, gs.BestParams, loaded.Model.BestParams)

	probe := []string{"flood near the school", "send food now", "quiet", "food and flood"}
	want, err := gs.Predict(probe)
	require.NoError(t, err)
	got, err := loaded.Model.Predict(probe)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.model")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale", 10000)), 0o644))

	size, err := Save(path, New([]string{"floods", "food"}, fitted(t)))
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, size, info.Size())

	_, err = Load(path, fieldsAnalyzer{}, prefixDetector{})
	require.NoError(t, err)
}

func TestSaveUnfitted(t *testing.T) {
	gs := model.NewGridSearch([]model.Params{{NEstimators: 5, LearningRate: 1}}, 2, nil, fieldsAnalyzer{}, prefixDetector{}, 1, nil)
	_, err := Save(filepath.Join(t.TempDir(), "m"), New(nil, gs))
	assert.True(t, errors.Is(err, internalerr.ErrNotFitted))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing"), fieldsAnalyzer{}, prefixDetector{})
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, []byte("not an artifact"), 0o644))
	_, err = Load(garbage, fieldsAnalyzer{}, prefixDetector{})
	assert.Error(t, err)
}
