// Package corpus maps input file formats to their loader strategies.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"storytrace/internal/domain"
)

// ErrUnsupportedFormat is returned when no loader claims a file extension.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// ProblemLoader reads raw problems from one file format.
type ProblemLoader interface {
	Extensions() []string
	LoadProblems(ctx context.Context, path string) ([]domain.RawProblem, error)
}

// StoryLoader reads raw stories from one file format.
type StoryLoader interface {
	Extensions() []string
	LoadStories(ctx context.Context, path string) ([]domain.RawStory, error)
}

// Registry keeps a mapping from file extensions to loader implementations.
type Registry struct {
	problems map[string]ProblemLoader
	stories  map[string]StoryLoader
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		problems: map[string]ProblemLoader{},
		stories:  map[string]StoryLoader{},
	}
}

// RegisterProblems adds or replaces problem loaders for their extensions.
func (r *Registry) RegisterProblems(loaders ...ProblemLoader) {
	for _, loader := range loaders {
		for _, ext := range loader.Extensions() {
			r.problems[normalizeExt(ext)] = loader
		}
	}
}

// RegisterStories adds or replaces story loaders for their extensions.
func (r *Registry) RegisterStories(loaders ...StoryLoader) {
	for _, loader := range loaders {
		for _, ext := range loader.Extensions() {
			r.stories[normalizeExt(ext)] = loader
		}
	}
}

// ResolveProblems returns the loader handling the file's extension.
func (r *Registry) ResolveProblems(path string) (ProblemLoader, error) {
	ext := normalizeExt(filepath.Ext(path))
	if loader, ok := r.problems[ext]; ok {
		return loader, nil
	}
	return nil, fmt.Errorf("problem file %s: %w", path, ErrUnsupportedFormat)
}

// ResolveStories returns the loader handling the file's extension.
func (r *Registry) ResolveStories(path string) (StoryLoader, error) {
	ext := normalizeExt(filepath.Ext(path))
	if loader, ok := r.stories[ext]; ok {
		return loader, nil
	}
	return nil, fmt.Errorf("story file %s: %w", path, ErrUnsupportedFormat)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
