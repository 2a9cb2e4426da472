package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// Default values applied when the YAML file omits a field.
const (
	DefaultTable         = "DisasterResponse"
	DefaultMessageColumn = "message"
	DefaultLabelOffset   = 4
	DefaultTestSize      = 0.2
	DefaultFolds         = 5
	DefaultLearningRate  = 1.0
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

// DefaultEstimators is the ensemble-size grid searched when none is configured.
var DefaultEstimators = []int{50, 60, 70, 80}

// Config holds the training run configuration.
type Config struct {
	Data  DataConfig  `yaml:"data"`
	Train TrainConfig `yaml:"train"`
	Log   LogConfig   `yaml:"log"`
}

// DataConfig describes where the labeled messages live.
type DataConfig struct {
	Table          string `yaml:"table"`
	MessageColumn  string `yaml:"message_column"`
	LabelOffset    int    `yaml:"label_offset"`
	DecodeEntities bool   `yaml:"decode_entities"`
}

// TrainConfig controls splitting, vectorization and the hyperparameter search.
type TrainConfig struct {
	TestSize      float64   `yaml:"test_size"`
	Seed          int64     `yaml:"seed"`
	Folds         int       `yaml:"folds"`
	Estimators    []int     `yaml:"n_estimators"`
	LearningRates []float64 `yaml:"learning_rate"`
	Parallelism   int       `yaml:"parallelism"`
	StoplistPath  string    `yaml:"stoplist"`
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" (development) or "json" (production)
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from a YAML file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Data.Table == "" {
		c.Data.Table = DefaultTable
	}
	if c.Data.MessageColumn == "" {
		c.Data.MessageColumn = DefaultMessageColumn
	}
	if c.Data.LabelOffset == 0 {
		c.Data.LabelOffset = DefaultLabelOffset
	}
	if c.Train.TestSize == 0 {
		c.Train.TestSize = DefaultTestSize
	}
	if c.Train.Folds == 0 {
		c.Train.Folds = DefaultFolds
	}
	if len(c.Train.Estimators) == 0 {
		c.Train.Estimators = append([]int(nil), DefaultEstimators...)
	}
	if len(c.Train.LearningRates) == 0 {
		c.Train.LearningRates = []float64{DefaultLearningRate}
	}
	if c.Train.Parallelism == 0 {
		c.Train.Parallelism = runtime.GOMAXPROCS(0)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks that the configuration can drive a training run.
func (c *Config) Validate() error {
	if c.Data.LabelOffset < 1 {
		return fmt.Errorf("%w: label_offset must be >= 1, got %d", internalerr.ErrInvalidConfig, c.Data.LabelOffset)
	}
	if c.Train.TestSize <= 0 || c.Train.TestSize >= 1 {
		return fmt.Errorf("%w: test_size must be in (0, 1), got %v", internalerr.ErrInvalidConfig, c.Train.TestSize)
	}
	if c.Train.Folds < 2 {
		return fmt.Errorf("%w: folds must be >= 2, got %d", internalerr.ErrInvalidConfig, c.Train.Folds)
	}
	for _, n := range c.Train.Estimators {
		if n < 1 {
			return fmt.Errorf("%w: n_estimators must be positive, got %d", internalerr.ErrInvalidConfig, n)
		}
	}
	for _, lr := range c.Train.LearningRates {
		if lr <= 0 {
			return fmt.Errorf("%w: learning_rate must be positive, got %v", internalerr.ErrInvalidConfig, lr)
		}
	}
	if c.Train.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be >= 1, got %d", internalerr.ErrInvalidConfig, c.Train.Parallelism)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format must be console or json, got %q", internalerr.ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
