package boost

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/triage/pkg/triage/features"
	"github.com/cognicore/triage/pkg/triage/internalerr"
)

func row(pairs ...float64) features.Vector {
	var v features.Vector
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Indices = append(v.Indices, int(pairs[i]))
		v.Values = append(v.Values, pairs[i+1])
	}
	return v
}

func TestNewColumnsSortsByValue(t *testing.T) {
	m := &features.Matrix{Cols: 2, Rows: []features.Vector{
		row(0, 0.9),
		row(0, 0.1, 1, 1),
		row(),
	}}

	cols := NewColumns(m)
	assert.Equal(t, 3, cols.NumRows)
	assert.Equal(t, []int{1, 0}, cols.Cols[0].Rows)
	assert.Equal(t, []float64{0.1, 0.9}, cols.Cols[0].Values)
	assert.Equal(t, []int{1}, cols.Cols[1].Rows)
}

func TestFitStumpThreshold(t *testing.T) {
	m := &features.Matrix{Cols: 1, Rows: []features.Vector{
		row(0, 0.2), row(0, 0.8), row(), row(),
	}}
	y := []uint8{0, 1, 0, 0}
	w := []float64{0.25, 0.25, 0.25, 0.25}

	s := fitStump(NewColumns(m), y, w)
	assert.Equal(t, 0, s.Feature)
	assert.InDelta(t, 0.5, s.Threshold, 1e-12)
	assert.Equal(t, uint8(0), s.Left)
	assert.Equal(t, uint8(1), s.Right)
}

func TestFitStumpNegativeValues(t *testing.T) {
	m := &features.Matrix{Cols: 1, Rows: []features.Vector{
		row(0, -1), row(0, -2), row(), row(0, 3),
	}}
	y := []uint8{1, 1, 0, 0}
	w := []float64{0.25, 0.25, 0.25, 0.25}

	s := fitStump(NewColumns(m), y, w)
	assert.InDelta(t, -0.5, s.Threshold, 1e-12)
	assert.Equal(t, uint8(1), s.Left)
	assert.Equal(t, uint8(0), s.Right)
}

func TestFitStumpConstantFeatures(t *testing.T) {
	m := &features.Matrix{Cols: 1, Rows: []features.Vector{row(), row(), row()}}
	s := fitStump(NewColumns(m), []uint8{1, 1, 0}, []float64{1, 1, 1})

	assert.Equal(t, -1, s.Feature)
	assert.Equal(t, uint8(1), s.Predict(row(0, 5)))
}

func TestEnsembleSeparable(t *testing.T) {
	x := &features.Matrix{Cols: 2, Rows: []features.Vector{
		row(0, 1), row(1, 1), row(0, 0.5), row(1, 0.3),
	}}
	y := []uint8{1, 0, 1, 0}

	e := New(50, 1.0)
	require.NoError(t, e.Fit(context.Background(), x, y))

	assert.Len(t, e.Stumps, 1, "a perfect stump stops boosting")
	assert.Equal(t, 1.0, e.Weights[0])

	pred, err := e.PredictMatrix(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)
}

func TestEnsembleSingleClass(t *testing.T) {
	x := &features.Matrix{Cols: 1, Rows: []features.Vector{row(0, 1), row()}}

	e := New(10, 1.0)
	require.NoError(t, e.Fit(context.Background(), x, []uint8{0, 0}))

	assert.Empty(t, e.Stumps)
	pred, err := e.PredictMatrix(&features.Matrix{Cols: 1, Rows: []features.Vector{row(0, 9)}})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0}, pred)
}

func TestEnsembleRespectsEstimatorLimit(t *testing.T) {
	x := &features.Matrix{Cols: 2, Rows: []features.Vector{
		row(0, 1), row(1, 1), row(0, 1, 1, 1), row(),
	}}
	y := []uint8{1, 1, 1, 0}

	e := New(3, 1.0)
	require.NoError(t, e.Fit(context.Background(), x, y))

	assert.NotEmpty(t, e.Stumps)
	assert.LessOrEqual(t, len(e.Stumps), 3)
	assert.Len(t, e.Weights, len(e.Stumps))
	for _, w := range e.Weights {
		assert.Greater(t, w, 0.0)
	}
}

func TestEnsembleDegenerate(t *testing.T) {
	// Identical rows with conflicting labels: nothing beats chance.
	x := &features.Matrix{Cols: 1, Rows: []features.Vector{row(0, 1), row(0, 1)}}

	err := New(5, 1.0).Fit(context.Background(), x, []uint8{0, 1})
	assert.ErrorIs(t, err, internalerr.ErrDegenerateEnsemble)
}

func TestEnsembleInputErrors(t *testing.T) {
	ctx := context.Background()
	x := &features.Matrix{Cols: 1, Rows: []features.Vector{row(0, 1)}}

	assert.ErrorIs(t, New(5, 1).Fit(ctx, &features.Matrix{}, nil), internalerr.ErrEmptyDataset)
	assert.ErrorIs(t, New(5, 1).Fit(ctx, x, []uint8{0, 1}), internalerr.ErrInvalidInput)
	assert.ErrorIs(t, New(5, 1).Fit(ctx, x, []uint8{2}), internalerr.ErrInvalidInput)
	assert.ErrorIs(t, New(0, 1).Fit(ctx, x, []uint8{1}), internalerr.ErrInvalidInput)

	_, err := New(5, 1).PredictMatrix(x)
	assert.ErrorIs(t, err, internalerr.ErrNotFitted)
}

func TestEnsembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	x := &features.Matrix{Cols: 1, Rows: []features.Vector{row(0, 1), row()}}

	err := New(5, 1).Fit(ctx, x, []uint8{1, 0})
	assert.ErrorIs(t, err, context.Canceled)
}
