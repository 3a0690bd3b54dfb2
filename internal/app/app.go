package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"storytrace/internal/config"
	"storytrace/internal/corpus"
	"storytrace/internal/infrastructure/loader"
	"storytrace/internal/infrastructure/review"
	"storytrace/internal/infrastructure/watch"
	"storytrace/internal/infrastructure/writer"
	"storytrace/internal/match"
	"storytrace/internal/ports"
	"storytrace/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   zerolog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger zerolog.Logger) *Application {
	registry := corpus.NewRegistry()
	csvLoader := loader.NewCSVLoader()
	jsonLoader := loader.NewJSONLoader()
	registry.RegisterProblems(csvLoader, jsonLoader)
	registry.RegisterStories(csvLoader, jsonLoader, loader.NewMarkdownLoader(), loader.NewHTMLLoader())

	source := loader.NewFileSource(registry, baseLogger.With().Str("component", "source").Logger())

	var notifier ports.ReviewNotifier
	if cfg.Review.WebhookURL != "" {
		notifier = review.NewWebhookNotifier(cfg.Review.WebhookURL, cfg.Review.Token)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Problems: source,
		Stories:  source,
		Writer:   writer.NewCSVWriter(),
		Notifier: notifier,
		Rubric:   rubricConfig(cfg.Rubric),
		Logger:   baseLogger.With().Str("component", "pipeline").Logger(),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}
}

// Run performs a single pipeline execution.
func (a *Application) Run(ctx context.Context, problemsPath, storiesPath, outputDir string) error {
	_, err := a.pipeline.Run(ctx, problemsPath, storiesPath, outputDir)
	return err
}

// Watch runs the pipeline once, then re-runs it whenever an input file
// changes, until the context is canceled or an interrupt arrives.
func (a *Application) Watch(ctx context.Context, problemsPath, storiesPath, outputDir string) error {
	watcher := watch.NewFileWatcher(
		[]string{problemsPath, storiesPath},
		a.cfg.Watch.Debounce,
		a.logger.With().Str("component", "watcher").Logger(),
	)
	runner := usecase.NewWatchRunner(
		watcher, a.pipeline, problemsPath, storiesPath, outputDir,
		a.logger.With().Str("component", "watch-runner").Logger(),
	)

	if err := runner.Start(ctx); err != nil {
		return err
	}
	defer func() {
		_ = runner.Stop(context.Background())
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-interrupt:
		a.logger.Info().Msg("interrupt received, stopping watch mode")
		return nil
	}
}

func rubricConfig(cfg config.RubricConfig) match.Config {
	rubric := match.DefaultConfig()
	if cfg.HighConfidence > 0 {
		rubric.HighConfidence = cfg.HighConfidence
	}
	if cfg.MediumConfidence > 0 {
		rubric.MediumConfidence = cfg.MediumConfidence
	}
	if cfg.BorderlineLow > 0 {
		rubric.BorderlineLow = cfg.BorderlineLow
	}
	if cfg.BorderlineHigh > 0 {
		rubric.BorderlineHigh = cfg.BorderlineHigh
	}
	if len(cfg.GovernanceTerms) > 0 {
		rubric.GovernanceTerms = cfg.GovernanceTerms
	}
	return rubric
}
