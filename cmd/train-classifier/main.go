package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/triage/pkg/triage"
	"github.com/cognicore/triage/pkg/triage/config"
	"github.com/cognicore/triage/pkg/triage/ingest"
	"github.com/cognicore/triage/pkg/triage/store/sqlite"
)

const usage = `Please provide the filepath of the disaster messages database as the first
argument and the filepath of the model file to save the model to as the
second argument.

Example: train-classifier ../data/DisasterResponse.db classifier.model
`

// cliArgs holds the parsed command line.
type cliArgs struct {
	configPath string
	envFile    string
	dbPath     string
	modelPath  string
}

// parseArgs parses the command line. It reports ok=false after printing the
// usage message to stdout when the positional argument count is wrong.
func parseArgs(args []string, stdout io.Writer) (cliArgs, bool, error) {
	var a cliArgs
	fs := flag.NewFlagSet("train-classifier", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.StringVar(&a.configPath, "config", "", "YAML config file (optional)")
	fs.StringVar(&a.envFile, "env", ".env", "Env file with TRIAGE_* overrides (optional)")
	if err := fs.Parse(args); err != nil {
		return a, false, err
	}

	if fs.NArg() != 2 {
		fmt.Fprint(stdout, usage)
		return a, false, nil
	}
	a.dbPath, a.modelPath = fs.Arg(0), fs.Arg(1)
	return a, true, nil
}

func main() {
	args, ok, err := parseArgs(os.Args[1:], os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if !ok {
		return
	}

	comp, err := (&config.Loader{ConfigPath: args.configPath, EnvFile: args.envFile}).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(comp.Config.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, comp, args.dbPath, args.modelPath, os.Stdout, logger); err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}
}

func run(ctx context.Context, comp *config.Components, dbPath, modelPath string, report io.Writer, logger *zap.Logger) error {
	cfg := comp.Config
	logger.Info("Loading NLP resources...")
	res, err := ingest.Setup()
	if err != nil {
		return fmt.Errorf("nlp setup: %w", err)
	}

	logger.Info("Opening database", zap.String("database", dbPath))
	src, err := sqlite.Open(ctx, dbPath, sqlite.Options{
		Table:          cfg.Data.Table,
		MessageColumn:  cfg.Data.MessageColumn,
		LabelOffset:    cfg.Data.LabelOffset,
		DecodeEntities: cfg.Data.DecodeEntities,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	tr := triage.New(triage.Options{
		Config:    cfg,
		StopWords: comp.Stopwords,
		Source:    src,
		NLP:       ingest.NewDefaultPipeline(res),
		Report:    report,
		Logger:    logger,
	})
	defer tr.Close()

	_, err = tr.Run(ctx, modelPath)
	return err
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
