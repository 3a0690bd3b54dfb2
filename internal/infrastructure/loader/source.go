package loader

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"storytrace/internal/corpus"
	"storytrace/internal/domain"
	"storytrace/internal/ports"
)

// FileSource implements the problem and story sources via registered loader
// strategies.
type FileSource struct {
	registry *corpus.Registry
	logger   zerolog.Logger
}

var (
	_ ports.ProblemSource = (*FileSource)(nil)
	_ ports.StorySource   = (*FileSource)(nil)
)

// NewFileSource wires the loader registry.
func NewFileSource(registry *corpus.Registry, logger zerolog.Logger) *FileSource {
	return &FileSource{registry: registry, logger: logger}
}

// LoadProblems resolves the loader for the file and reads the corpus.
func (s *FileSource) LoadProblems(ctx context.Context, path string) ([]domain.RawProblem, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("loader registry is not configured")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("problem file: %w", err)
	}

	strategy, err := s.registry.ResolveProblems(path)
	if err != nil {
		return nil, err
	}

	problems, err := strategy.LoadProblems(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load problems %s: %w", path, err)
	}
	s.logger.Debug().Str("path", path).Int("count", len(problems)).Msg("problems loaded")
	return problems, nil
}

// LoadStories resolves the loader for the file and reads the corpus.
func (s *FileSource) LoadStories(ctx context.Context, path string) ([]domain.RawStory, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("loader registry is not configured")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("story file: %w", err)
	}

	strategy, err := s.registry.ResolveStories(path)
	if err != nil {
		return nil, err
	}

	stories, err := strategy.LoadStories(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load stories %s: %w", path, err)
	}
	s.logger.Debug().Str("path", path).Int("count", len(stories)).Msg("stories loaded")
	return stories, nil
}
