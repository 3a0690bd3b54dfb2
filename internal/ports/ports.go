package ports

import (
	"context"
	"time"

	"storytrace/internal/domain"
)

// ProblemSource loads raw problem statements from an input artifact.
type ProblemSource interface {
	LoadProblems(ctx context.Context, path string) ([]domain.RawProblem, error)
}

// StorySource loads raw user stories from an input artifact.
type StorySource interface {
	LoadStories(ctx context.Context, path string) ([]domain.RawStory, error)
}

// ArtifactWriter serializes everything a run produced.
type ArtifactWriter interface {
	Write(outputDir string, artifacts domain.RunArtifacts) error
}

// ReviewNotifier publishes escalated problems for human review.
type ReviewNotifier interface {
	PublishDigest(ctx context.Context, digest domain.EscalationDigest) error
}

// Watcher re-triggers runs when input artifacts change.
type Watcher interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
