package model

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/triage/pkg/triage/boost"
	"github.com/cognicore/triage/pkg/triage/features"
	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// MultiOutput trains one independent boosted ensemble per category over a
// shared feature matrix.
type MultiOutput struct {
	Params     Params
	Estimators []*boost.Ensemble
}

// NewMultiOutput creates an unfitted multi-output classifier.
func NewMultiOutput(p Params) *MultiOutput {
	return &MultiOutput{Params: p}
}

// Fit trains every category. labels is row-major: labels[i][k] is row i, category k.
// Up to workers categories are fitted at once.
func (m *MultiOutput) Fit(ctx context.Context, x *features.Matrix, labels [][]uint8, workers int) error {
	if len(labels) == 0 || x.NumRows() != len(labels) {
		return fmt.Errorf("%w: %d feature rows, %d label rows", internalerr.ErrInvalidInput, x.NumRows(), len(labels))
	}
	k := len(labels[0])
	if k == 0 {
		return fmt.Errorf("%w: no categories", internalerr.ErrInvalidInput)
	}

	cols := boost.NewColumns(x)
	estimators := make([]*boost.Ensemble, k)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for c := 0; c < k; c++ {
		g.Go(func() error {
			y := make([]uint8, len(labels))
			for i, row := range labels {
				y[i] = row[c]
			}
			e := boost.New(m.Params.NEstimators, m.Params.LearningRate)
			if err := e.FitColumns(ctx, x, cols, y); err != nil {
				return fmt.Errorf("category %d: %w", c, err)
			}
			estimators[c] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	m.Estimators = estimators
	return nil
}

// Predict returns a row-major 0/1 matrix with one column per category.
func (m *MultiOutput) Predict(x *features.Matrix) ([][]uint8, error) {
	if len(m.Estimators) == 0 {
		return nil, internalerr.ErrNotFitted
	}
	out := make([][]uint8, x.NumRows())
	for i, row := range x.Rows {
		out[i] = make([]uint8, len(m.Estimators))
		for c, e := range m.Estimators {
			out[i][c] = e.Predict(row)
		}
	}
	return out, nil
}
