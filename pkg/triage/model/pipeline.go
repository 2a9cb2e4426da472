package model

import (
	"context"

	"github.com/cognicore/triage/pkg/triage/features"
	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// Params are the hyperparameters searched by GridSearch.
type Params struct {
	NEstimators  int
	LearningRate float64
}

// Pipeline is feature extraction followed by the multi-output classifier.
type Pipeline struct {
	Features   *features.Union
	Classifier *MultiOutput

	workers int
}

// NewPipeline creates an unfitted pipeline.
func NewPipeline(p Params, analyzer features.Analyzer, detector features.VerbDetector, stopWords []string) *Pipeline {
	return &Pipeline{
		Features:   features.NewUnion(analyzer, detector, stopWords),
		Classifier: NewMultiOutput(p),
		workers:    1,
	}
}

// Bind re-attaches the NLP components after deserialization.
func (p *Pipeline) Bind(analyzer features.Analyzer, detector features.VerbDetector) {
	p.Features.Bind(analyzer, detector)
}

// SetWorkers bounds how many categories are fitted concurrently.
func (p *Pipeline) SetWorkers(n int) { p.workers = n }

// Fit learns the vocabulary, IDF weights and per-category ensembles.
func (p *Pipeline) Fit(ctx context.Context, texts []string, labels [][]uint8) error {
	x, err := p.Features.FitTransform(texts)
	if err != nil {
		return err
	}
	return p.Classifier.Fit(ctx, x, labels, p.workers)
}

// Predict returns one 0/1 row per message, one column per category.
func (p *Pipeline) Predict(texts []string) ([][]uint8, error) {
	if p.Classifier == nil || len(p.Classifier.Estimators) == 0 {
		return nil, internalerr.ErrNotFitted
	}
	x, err := p.Features.Transform(texts)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(x)
}
