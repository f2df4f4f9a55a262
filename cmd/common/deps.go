// Package common provides shared utilities for command implementations.
package common

import (
	"fmt"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/brandmon/internal/config"
	"github.com/jonesrussell/brandmon/internal/dataset"
	"github.com/jonesrussell/brandmon/internal/fetcher"
	"github.com/jonesrussell/brandmon/internal/logger"
	"github.com/jonesrussell/brandmon/internal/pipeline"
	"github.com/jonesrussell/brandmon/internal/storage"
)

// CommandDeps holds common dependencies for all commands.
// Use this instead of context.Value for type-safe dependency injection.
type CommandDeps struct {
	Logger logger.Interface
	Config *config.Config
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	return nil
}

// NewCommandDeps creates CommandDeps by loading config and creating logger.
func NewCommandDeps() (CommandDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	return CommandDeps{Logger: log, Config: cfg}, nil
}

// PipelineResources bundles a ready-to-run pipeline with the resources that
// must be released after the run.
type PipelineResources struct {
	Pipeline *pipeline.Pipeline
	Sink     *storage.SQLiteSink // nil when disabled
}

// Close releases held resources.
func (r *PipelineResources) Close() {
	if r.Sink != nil {
		_ = r.Sink.Close()
	}
}

// NewPipeline constructs the crawl pipeline from the loaded configuration.
func NewPipeline(deps CommandDeps) (*PipelineResources, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}

	cfg := deps.Config

	fetch := fetcher.New(fetcher.Config{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
		Limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, deps.Logger)

	writer := dataset.NewWriter(cfg.OutputDir, deps.Logger)

	var sink *storage.SQLiteSink
	var pipelineSink pipeline.Sink
	if cfg.SQLitePath != "" {
		var err error
		sink, err = storage.NewSQLiteSink(cfg.SQLitePath, deps.Logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite sink: %w", err)
		}
		pipelineSink = sink
	}

	return &PipelineResources{
		Pipeline: pipeline.New(cfg, fetch, writer, pipelineSink, deps.Logger),
		Sink:     sink,
	}, nil
}
