package model

import (
	"go.uber.org/zap"

	"github.com/cognicore/triage/pkg/triage/config"
	"github.com/cognicore/triage/pkg/triage/features"
)

// Grid expands the configured ensemble sizes and learning rates into their
// cross product, ensemble size varying slowest.
func Grid(estimators []int, learningRates []float64) []Params {
	grid := make([]Params, 0, len(estimators)*len(learningRates))
	for _, n := range estimators {
		for _, lr := range learningRates {
			grid = append(grid, Params{NEstimators: n, LearningRate: lr})
		}
	}
	return grid
}

// Build returns the unfitted grid search described by cfg.
func Build(cfg *config.Config, stopWords []string, analyzer features.Analyzer, detector features.VerbDetector, logger *zap.Logger) *GridSearch {
	return NewGridSearch(
		Grid(cfg.Train.Estimators, cfg.Train.LearningRates),
		cfg.Train.Folds,
		stopWords,
		analyzer,
		detector,
		cfg.Train.Parallelism,
		logger,
	)
}
