package triage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/cognicore/triage/pkg/triage/analytics"
	"github.com/cognicore/triage/pkg/triage/artifact"
	"github.com/cognicore/triage/pkg/triage/config"
	"github.com/cognicore/triage/pkg/triage/features"
	"github.com/cognicore/triage/pkg/triage/internalerr"
	"github.com/cognicore/triage/pkg/triage/metrics"
	"github.com/cognicore/triage/pkg/triage/model"
	"github.com/cognicore/triage/pkg/triage/store"
)

// NLP is the text analysis the classifier pipeline needs: tokenization for
// the TF-IDF columns and starting-verb detection.
type NLP interface {
	features.Analyzer
	features.VerbDetector
}

// Trainer is the training run facade: load, split, search, evaluate, save.
type Trainer struct {
	cfg       *config.Config
	stopWords []string
	source    store.Source
	nlp       NLP
	report    io.Writer
	logger    *zap.Logger
}

// Options configures a Trainer instance
type Options struct {
	Config    *config.Config
	StopWords []string
	Source    store.Source
	NLP       NLP
	Report    io.Writer // classification reports
	Logger    *zap.Logger
}

// New creates a Trainer with the given dependencies
func New(opts Options) *Trainer {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	report := opts.Report
	if report == nil {
		report = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trainer{
		cfg:       cfg,
		stopWords: opts.StopWords,
		source:    opts.Source,
		nlp:       opts.NLP,
		report:    report,
		logger:    logger,
	}
}

// Close releases the data source.
func (t *Trainer) Close() error {
	if t.source == nil {
		return nil
	}
	return t.source.Close()
}

// Result summarizes a finished run.
type Result struct {
	Artifact *artifact.Artifact
	Stats    analytics.Stats
	Reports  []metrics.Report
	Bytes    int64
	TrainLen int
	TestLen  int
}

// Run trains a classifier on the source data and writes it to modelPath.
func (t *Trainer) Run(ctx context.Context, modelPath string) (*Result, error) {
	if t.source == nil || t.nlp == nil {
		return nil, fmt.Errorf("%w: trainer needs a source and an NLP pipeline", internalerr.ErrInvalidConfig)
	}

	t.logger.Info("Loading data...")
	ds, err := t.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: no messages loaded", internalerr.ErrEmptyDataset)
	}

	stats, err := t.describe(ds)
	if err != nil {
		return nil, err
	}

	trainRows, testRows, err := model.Split(ds.Len(), t.cfg.Train.TestSize, t.cfg.Train.Seed)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}
	train, test := ds.Subset(trainRows), ds.Subset(testRows)

	t.logger.Info("Building model...")
	search := model.Build(t.cfg, t.stopWords, t.nlp, t.nlp, t.logger)

	t.logger.Info("Training model...",
		zap.Int("train", train.Len()),
		zap.Int("candidates", len(search.Grid)),
		zap.Int("folds", search.Folds))
	start := time.Now()
	if err := search.Fit(ctx, train.Messages, train.Labels); err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}
	t.logger.Info("Model trained",
		zap.Int("n_estimators", search.BestParams.NEstimators),
		zap.Float64("learning_rate", search.BestParams.LearningRate),
		zap.Float64("cv_score", search.BestScore),
		zap.Duration("elapsed", time.Since(start)))

	t.logger.Info("Evaluating model...", zap.Int("test", test.Len()))
	reports, err := metrics.Evaluate(t.report, search, test)
	if err != nil {
		return nil, fmt.Errorf("evaluate model: %w", err)
	}

	art := artifact.New(ds.Categories, search)
	art.TestAccuracy = make([]float64, len(reports))
	for i, r := range reports {
		art.TestAccuracy[i] = r.Accuracy
	}

	t.logger.Info("Saving model...", zap.String("path", modelPath))
	size, err := artifact.Save(modelPath, art)
	if err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}
	t.logger.Info("Trained model saved!",
		zap.String("id", art.ID),
		zap.String("path", modelPath),
		zap.String("size", humanize.Bytes(uint64(size))))

	return &Result{
		Artifact: art,
		Stats:    stats,
		Reports:  reports,
		Bytes:    size,
		TrainLen: train.Len(),
		TestLen:  test.Len(),
	}, nil
}

func (t *Trainer) describe(ds *store.Dataset) (analytics.Stats, error) {
	a := analytics.NewAnalyzer(ds.Categories)
	for _, row := range ds.Labels {
		if err := a.Process(row); err != nil {
			return analytics.Stats{}, err
		}
	}
	stats := a.Snapshot()

	t.logger.Info("Dataset loaded",
		zap.Int64("messages", stats.TotalDocs),
		zap.Int("categories", len(stats.Categories)),
		zap.Int64("unlabeled", stats.Unlabeled))
	for _, c := range stats.Rarest(5) {
		t.logger.Debug("Rare category", zap.String("category", c.Name), zap.Int64("positives", c.Positives), zap.Float64("rate", c.Rate))
	}
	if empty := stats.Empty(); len(empty) > 0 {
		t.logger.Warn("Categories without positive examples", zap.Strings("categories", empty))
	}
	return stats, nil
}
