package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"storytrace/internal/domain"
	"storytrace/internal/match"
	"storytrace/internal/normalize"
	"storytrace/internal/ports"
	"storytrace/internal/story"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Problems ports.ProblemSource
	Stories  ports.StorySource
	Writer   ports.ArtifactWriter
	Notifier ports.ReviewNotifier
	Rubric   match.Config
	Logger   zerolog.Logger
}

// Pipeline implements the load→normalize→score→aggregate→write workflow.
// Runs are single-threaded and process the corpora in input order, so output
// ordering is deterministic for identical inputs.
type Pipeline struct {
	problems ports.ProblemSource
	stories  ports.StorySource
	writer   ports.ArtifactWriter
	notifier ports.ReviewNotifier
	rubric   match.Config
	logger   zerolog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		problems: deps.Problems,
		stories:  deps.Stories,
		writer:   deps.Writer,
		notifier: deps.Notifier,
		rubric:   deps.Rubric,
		logger:   deps.Logger,
	}
}

// Run executes one full traceability run and returns the artifacts it
// produced.
func (p *Pipeline) Run(ctx context.Context, problemsPath, storiesPath, outputDir string) (domain.RunArtifacts, error) {
	var artifacts domain.RunArtifacts

	if p.problems == nil || p.stories == nil {
		return artifacts, fmt.Errorf("pipeline sources are not configured")
	}

	rawProblems, err := p.problems.LoadProblems(ctx, problemsPath)
	if err != nil {
		return artifacts, fmt.Errorf("load problems: %w", err)
	}
	rawStories, err := p.stories.LoadStories(ctx, storiesPath)
	if err != nil {
		return artifacts, fmt.Errorf("load stories: %w", err)
	}

	problems := normalize.Problems(rawProblems)
	stories := story.ParseAll(rawStories)
	p.logger.Info().Int("problems", len(problems)).Int("stories", len(stories)).Msg("corpora prepared")

	rubric := p.rubric
	rubric.RunID = uuid.NewString()

	pairs := match.ProposePairs(problems, stories, rubric)
	edges := make([]domain.ScoredEdge, 0, len(pairs))
	for _, pair := range pairs {
		edges = append(edges, match.ScorePair(pair.Problem, pair.Story, rubric))
	}
	summaries := match.CoverageSummaries(problems, edges)
	p.logger.Info().
		Str("run_id", rubric.RunID).
		Int("candidate_pairs", len(pairs)).
		Int("edges", len(edges)).
		Int("summaries", len(summaries)).
		Msg("scoring complete")

	artifacts = domain.RunArtifacts{
		RunID:     rubric.RunID,
		Problems:  problems,
		Stories:   stories,
		Edges:     edges,
		Summaries: summaries,
	}

	if p.writer != nil {
		if err := p.writer.Write(outputDir, artifacts); err != nil {
			return artifacts, fmt.Errorf("write artifacts: %w", err)
		}
	}

	if p.notifier != nil {
		digest := buildEscalationDigest(rubric.RunID, summaries)
		if len(digest.Items) > 0 {
			if err := p.notifier.PublishDigest(ctx, digest); err != nil {
				return artifacts, fmt.Errorf("publish escalation digest: %w", err)
			}
			p.logger.Info().Int("escalated", len(digest.Items)).Msg("escalation digest published")
		}
	}

	return artifacts, nil
}

func buildEscalationDigest(runID string, summaries []domain.CoverageSummary) domain.EscalationDigest {
	digest := domain.EscalationDigest{RunID: runID}
	for _, summary := range summaries {
		if !summary.Escalate {
			continue
		}
		digest.Items = append(digest.Items, domain.EscalationItem{
			ProblemID:        summary.ProblemID,
			BestConfidence:   string(summary.BestConfidence),
			EscalateReasons:  summary.EscalateReasons,
			UnresolvedFacets: summary.UnresolvedFacets,
		})
	}
	return digest
}
