package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"storytrace/internal/ports"
)

// WatchRunner re-runs the pipeline whenever the watcher reports a change to
// one of the input files. Each trigger is a whole sequential run; nothing is
// processed concurrently.
type WatchRunner struct {
	driver   ports.Watcher
	pipeline *Pipeline
	logger   zerolog.Logger

	problemsPath string
	storiesPath  string
	outputDir    string
}

// NewWatchRunner wires the watcher driver with the pipeline.
func NewWatchRunner(driver ports.Watcher, pipeline *Pipeline, problemsPath, storiesPath, outputDir string, logger zerolog.Logger) *WatchRunner {
	return &WatchRunner{
		driver:       driver,
		pipeline:     pipeline,
		logger:       logger,
		problemsPath: problemsPath,
		storiesPath:  storiesPath,
		outputDir:    outputDir,
	}
}

// Start performs an initial run, then registers the re-run job with the
// watcher. Failed re-runs are logged and do not stop watching.
func (w *WatchRunner) Start(ctx context.Context) error {
	if w.driver == nil || w.pipeline == nil {
		return nil
	}

	if _, err := w.pipeline.Run(ctx, w.problemsPath, w.storiesPath, w.outputDir); err != nil {
		return err
	}

	job := func(trigger time.Time) {
		w.logger.Info().Time("trigger", trigger).Msg("inputs changed, re-running")
		if _, err := w.pipeline.Run(ctx, w.problemsPath, w.storiesPath, w.outputDir); err != nil {
			w.logger.Error().Err(err).Msg("re-run failed")
		}
	}

	return w.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying watcher.
func (w *WatchRunner) Stop(ctx context.Context) error {
	if w.driver == nil {
		return nil
	}
	return w.driver.Stop(ctx)
}
