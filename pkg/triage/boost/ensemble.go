// Package boost implements discrete AdaBoost (SAMME, two classes) over
// decision stumps on sparse feature matrices.
package boost

import (
	"context"
	"fmt"
	"math"

	"github.com/cognicore/triage/pkg/triage/features"
	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// DefaultLearningRate shrinks nothing.
const DefaultLearningRate = 1.0

// Ensemble is a boosted set of weighted stumps for one binary label.
type Ensemble struct {
	NEstimators  int
	LearningRate float64

	Classes []uint8 // distinct training labels; a single class means a constant predictor
	Stumps  []Stump
	Weights []float64
}

// New creates an unfitted ensemble.
func New(nEstimators int, learningRate float64) *Ensemble {
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	return &Ensemble{NEstimators: nEstimators, LearningRate: learningRate}
}

// Fit trains on a feature matrix and 0/1 labels.
func (e *Ensemble) Fit(ctx context.Context, x *features.Matrix, y []uint8) error {
	return e.FitColumns(ctx, x, NewColumns(x), y)
}

// FitColumns trains using a precomputed column view of x.
func (e *Ensemble) FitColumns(ctx context.Context, x *features.Matrix, cols *Columns, y []uint8) error {
	n := x.NumRows()
	if n == 0 {
		return fmt.Errorf("%w: no training rows", internalerr.ErrEmptyDataset)
	}
	if len(y) != n {
		return fmt.Errorf("%w: %d rows but %d labels", internalerr.ErrInvalidInput, n, len(y))
	}
	if e.NEstimators < 1 {
		return fmt.Errorf("%w: n_estimators must be positive", internalerr.ErrInvalidInput)
	}
	for _, label := range y {
		if label > 1 {
			return fmt.Errorf("%w: label %d is not binary", internalerr.ErrInvalidInput, label)
		}
	}

	e.Stumps = e.Stumps[:0]
	e.Weights = e.Weights[:0]
	e.Classes = classes(y)
	if len(e.Classes) == 1 {
		return nil
	}

	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	incorrect := make([]bool, n)

	for m := 0; m < e.NEstimators; m++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		stump := fitStump(cols, y, w)

		var errSum, wSum float64
		for i, row := range x.Rows {
			incorrect[i] = stump.Predict(row) != y[i]
			if incorrect[i] {
				errSum += w[i]
			}
			wSum += w[i]
		}
		estErr := errSum / wSum

		if estErr <= 0 {
			e.Stumps = append(e.Stumps, stump)
			e.Weights = append(e.Weights, 1)
			break
		}
		if estErr >= 0.5 {
			if len(e.Stumps) == 0 {
				return internalerr.ErrDegenerateEnsemble
			}
			break
		}

		alpha := e.LearningRate * math.Log((1-estErr)/estErr)
		e.Stumps = append(e.Stumps, stump)
		e.Weights = append(e.Weights, alpha)

		if m == e.NEstimators-1 {
			break
		}

		factor := math.Exp(alpha)
		var sum float64
		for i := range w {
			if incorrect[i] && w[i] > 0 {
				w[i] *= factor
			}
			sum += w[i]
		}
		for i := range w {
			w[i] /= sum
		}
	}

	return nil
}

// Predict classifies one row.
func (e *Ensemble) Predict(row features.Vector) uint8 {
	if len(e.Classes) == 1 {
		return e.Classes[0]
	}
	var score float64
	for k, s := range e.Stumps {
		if s.Predict(row) == 1 {
			score += e.Weights[k]
		} else {
			score -= e.Weights[k]
		}
	}
	if score > 0 {
		return 1
	}
	return 0
}

// PredictMatrix classifies every row of x.
func (e *Ensemble) PredictMatrix(x *features.Matrix) ([]uint8, error) {
	if len(e.Classes) == 0 {
		return nil, internalerr.ErrNotFitted
	}
	out := make([]uint8, x.NumRows())
	for i, row := range x.Rows {
		out[i] = e.Predict(row)
	}
	return out, nil
}

func classes(y []uint8) []uint8 {
	var seen [2]bool
	for _, label := range y {
		seen[label] = true
	}
	var out []uint8
	for c, ok := range seen {
		if ok {
			out = append(out, uint8(c))
		}
	}
	return out
}
