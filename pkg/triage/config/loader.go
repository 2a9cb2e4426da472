package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cognicore/triage/pkg/triage/internalerr"
)

// Environment variables that override YAML values.
const (
	EnvTable       = "TRIAGE_TABLE"
	EnvSeed        = "TRIAGE_SEED"
	EnvFolds       = "TRIAGE_FOLDS"
	EnvParallelism = "TRIAGE_PARALLELISM"
	EnvLogLevel    = "TRIAGE_LOG_LEVEL"
	EnvLogFormat   = "TRIAGE_LOG_FORMAT"
)

// Loader assembles the run configuration from an optional YAML file,
// an optional .env file and the process environment.
type Loader struct {
	ConfigPath string
	EnvFile    string
}

// Components holds everything the trainer needs from configuration.
type Components struct {
	Config    *Config
	Stopwords []string
}

// Load reads all configuration sources and returns validated components
func (l *Loader) Load() (*Components, error) {
	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := LoadConfig(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Components{Config: cfg}
	if cfg.Train.StoplistPath != "" {
		stoplist, err := LoadStoplist(cfg.Train.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stopwords = stoplist.Terms
	}

	return comp, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvTable)); v != "" {
		cfg.Data.Table = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Log.Format = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSeed)); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", internalerr.ErrInvalidConfig, EnvSeed, v)
		}
		cfg.Train.Seed = seed
	}
	if v := strings.TrimSpace(os.Getenv(EnvFolds)); v != "" {
		folds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", internalerr.ErrInvalidConfig, EnvFolds, v)
		}
		cfg.Train.Folds = folds
	}
	if v := strings.TrimSpace(os.Getenv(EnvParallelism)); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", internalerr.ErrInvalidConfig, EnvParallelism, v)
		}
		cfg.Train.Parallelism = p
	}
	return nil
}
