package metrics

import (
	"fmt"
	"io"

	"github.com/cognicore/triage/pkg/triage/internalerr"
	"github.com/cognicore/triage/pkg/triage/store"
)

// Predictor produces one 0/1 row per message.
type Predictor interface {
	Predict(texts []string) ([][]uint8, error)
}

// Evaluate predicts the held-out messages and prints, for every category in
// order, its name, the report table and its accuracy.
func Evaluate(w io.Writer, p Predictor, ds *store.Dataset) ([]Report, error) {
	pred, err := p.Predict(ds.Messages)
	if err != nil {
		return nil, fmt.Errorf("predict test set: %w", err)
	}
	if len(pred) != ds.Len() {
		return nil, fmt.Errorf("%w: %d predictions for %d messages", internalerr.ErrInvalidInput, len(pred), ds.Len())
	}
	for i, row := range pred {
		if len(row) != len(ds.Categories) {
			return nil, fmt.Errorf("%w: prediction row %d has %d labels, want %d",
				internalerr.ErrInvalidInput, i, len(row), len(ds.Categories))
		}
	}

	reports := make([]Report, len(ds.Categories))
	for k, name := range ds.Categories {
		predCol := make([]uint8, len(pred))
		for i, row := range pred {
			predCol[i] = row[k]
		}
		r := Classification(name, ds.Column(k), predCol)
		reports[k] = r

		fmt.Fprintf(w, "Category: %s\n", name)
		r.Render(w)
		fmt.Fprintf(w, "Accuracy of %25s: %.2f\n", name, r.Accuracy)
	}
	return reports, nil
}
