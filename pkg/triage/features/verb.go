package features

import (
	"fmt"

	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// StartingVerbFeature is the single boolean column "message starts with a
// verb". It is stateless: Fit does nothing and Transform is a pure function
// of each message.
type StartingVerbFeature struct {
	Name string

	detector VerbDetector
}

// NewStartingVerbFeature wraps a detector as a Transformer.
func NewStartingVerbFeature(detector VerbDetector) *StartingVerbFeature {
	return &StartingVerbFeature{Name: "starting_verb", detector: detector}
}

// Bind attaches the detector, which is not part of the serialized state.
func (f *StartingVerbFeature) Bind(detector VerbDetector) { f.detector = detector }

// Fit implements Transformer.
func (f *StartingVerbFeature) Fit(texts []string) error { return nil }

// Transform returns one row per message holding 1 when it starts with a verb.
func (f *StartingVerbFeature) Transform(texts []string) (*Matrix, error) {
	if f.detector == nil {
		return nil, fmt.Errorf("%w: starting verb feature has no detector", internalerr.ErrNotFitted)
	}
	m := &Matrix{Rows: make([]Vector, len(texts)), Cols: 1}
	for i, text := range texts {
		if f.detector.StartsWithVerb(text) {
			m.Rows[i] = Vector{Indices: []int{0}, Values: []float64{1}}
		}
	}
	return m, nil
}
