package model

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/triage/pkg/triage/features"
	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// CVResult records the cross-validated score of one candidate.
type CVResult struct {
	Params     Params
	FoldScores []float64
	MeanScore  float64
	StdScore   float64
	Rank       int
}

// GridSearch evaluates every candidate in Grid with k-fold cross validation,
// scores folds by subset accuracy and refits the best candidate on all
// training rows.
type GridSearch struct {
	Grid      []Params
	Folds     int
	StopWords []string

	Results    []CVResult
	BestIndex  int
	BestParams Params
	BestScore  float64
	Best       *Pipeline

	analyzer features.Analyzer
	detector features.VerbDetector
	workers  int
	logger   *zap.Logger
}

// NewGridSearch creates an unfitted search. workers bounds concurrent fits.
func NewGridSearch(grid []Params, folds int, stopWords []string, analyzer features.Analyzer, detector features.VerbDetector, workers int, logger *zap.Logger) *GridSearch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GridSearch{
		Grid:      grid,
		Folds:     folds,
		StopWords: stopWords,
		BestIndex: -1,
		analyzer:  analyzer,
		detector:  detector,
		workers:   max(workers, 1),
		logger:    logger,
	}
}

// Bind re-attaches the NLP components after deserialization.
func (g *GridSearch) Bind(analyzer features.Analyzer, detector features.VerbDetector) {
	g.analyzer = analyzer
	g.detector = detector
	if g.Best != nil {
		g.Best.Bind(analyzer, detector)
	}
}

// SetLogger replaces the logger, e.g. after deserialization.
func (g *GridSearch) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g.logger = logger
}

func (g *GridSearch) newPipeline(p Params) *Pipeline {
	return NewPipeline(p, g.analyzer, g.detector, g.StopWords)
}

// Fit runs the search and refits the winner.
func (g *GridSearch) Fit(ctx context.Context, texts []string, labels [][]uint8) error {
	n := len(texts)
	if len(g.Grid) == 0 {
		return fmt.Errorf("%w: empty parameter grid", internalerr.ErrInvalidConfig)
	}
	if n != len(labels) {
		return fmt.Errorf("%w: %d messages, %d label rows", internalerr.ErrInvalidInput, n, len(labels))
	}
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 training messages, got %d", internalerr.ErrEmptyDataset, n)
	}

	k := g.Folds
	if k > n {
		g.logger.Warn("Fewer training messages than folds, reducing folds", zap.Int("folds", k), zap.Int("messages", n))
		k = n
	}
	folds := KFold(n, k)

	scores := make([][]float64, len(g.Grid))
	for c := range scores {
		scores[c] = make([]float64, k)
	}

	start := time.Now()
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for c := range g.Grid {
		for f := range folds {
			eg.Go(func() error {
				if err := egctx.Err(); err != nil {
					return err
				}
				score, err := g.scoreFold(egctx, g.Grid[c], folds[f], texts, labels)
				if err != nil {
					return fmt.Errorf("candidate %+v fold %d: %w", g.Grid[c], f, err)
				}
				scores[c][f] = score
				g.logger.Debug("Fold scored",
					zap.Int("n_estimators", g.Grid[c].NEstimators),
					zap.Float64("learning_rate", g.Grid[c].LearningRate),
					zap.Int("fold", f),
					zap.Float64("score", score))
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	g.Results = make([]CVResult, len(g.Grid))
	g.BestIndex = 0
	for c, p := range g.Grid {
		mean, std := meanStd(scores[c])
		g.Results[c] = CVResult{Params: p, FoldScores: scores[c], MeanScore: mean, StdScore: std}
		if mean > g.Results[g.BestIndex].MeanScore {
			g.BestIndex = c
		}
	}
	for c := range g.Results {
		rank := 1
		for o := range g.Results {
			if g.Results[o].MeanScore > g.Results[c].MeanScore {
				rank++
			}
		}
		g.Results[c].Rank = rank
	}

	g.BestParams = g.Grid[g.BestIndex]
	g.BestScore = g.Results[g.BestIndex].MeanScore
	g.logger.Info("Grid search finished",
		zap.Int("candidates", len(g.Grid)),
		zap.Int("folds", k),
		zap.Int("best_n_estimators", g.BestParams.NEstimators),
		zap.Float64("best_learning_rate", g.BestParams.LearningRate),
		zap.Float64("best_score", g.BestScore),
		zap.Duration("elapsed", time.Since(start)))

	best := g.newPipeline(g.BestParams)
	best.SetWorkers(g.workers)
	if err := best.Fit(ctx, texts, labels); err != nil {
		return fmt.Errorf("refit best candidate: %w", err)
	}
	g.Best = best
	return nil
}

func (g *GridSearch) scoreFold(ctx context.Context, p Params, valRows []int, texts []string, labels [][]uint8) (float64, error) {
	inVal := make(map[int]struct{}, len(valRows))
	for _, r := range valRows {
		inVal[r] = struct{}{}
	}

	var trainTexts, valTexts []string
	var trainLabels, valLabels [][]uint8
	for i := range texts {
		if _, ok := inVal[i]; ok {
			valTexts = append(valTexts, texts[i])
			valLabels = append(valLabels, labels[i])
		} else {
			trainTexts = append(trainTexts, texts[i])
			trainLabels = append(trainLabels, labels[i])
		}
	}

	pipe := g.newPipeline(p)
	if err := pipe.Fit(ctx, trainTexts, trainLabels); err != nil {
		return 0, err
	}
	pred, err := pipe.Predict(valTexts)
	if err != nil {
		return 0, err
	}
	return SubsetAccuracy(valLabels, pred), nil
}

// Predict delegates to the refit best pipeline.
func (g *GridSearch) Predict(texts []string) ([][]uint8, error) {
	if g.Best == nil {
		return nil, internalerr.ErrNotFitted
	}
	return g.Best.Predict(texts)
}

// SubsetAccuracy is the fraction of rows whose predicted labels all match.
func SubsetAccuracy(truth, pred [][]uint8) float64 {
	if len(truth) == 0 {
		return 0
	}
	hits := 0
	for i := range truth {
		match := len(truth[i]) == len(pred[i])
		for k := 0; match && k < len(truth[i]); k++ {
			match = truth[i][k] == pred[i][k]
		}
		if match {
			hits++
		}
	}
	return float64(hits) / float64(len(truth))
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}
