package match

import (
	"fmt"
	"time"

	"storytrace/internal/domain"
)

// Review flags attached to edges that deserve a human look.
const (
	FlagBorderlineMedium = "borderline_medium"
	FlagHighNeedsReview  = "high_needs_review"
)

// ScorePair evaluates one candidate pair against the full rubric and returns
// the immutable edge judgment. Aside from the provenance timestamp the
// function is pure; the timestamp never influences scores or labels.
func ScorePair(problem domain.NormalizedProblem, story domain.ParsedStory, cfg Config) domain.ScoredEdge {
	dims := map[string]int{
		domain.DimPersona:     PersonaAlignment(problem, story),
		domain.DimCapability:  CapabilityAlignment(problem, story),
		domain.DimCausal:      CausalCoverage(problem, story),
		domain.DimGranularity: GranularityFit(problem, story),
		domain.DimValue:       ValueAlignment(problem, story),
		domain.DimGovernance:  GovernanceAlignment(problem, story, cfg),
		domain.DimEvidence:    EvidenceTransfer(problem),
	}

	total := 0
	for _, score := range dims {
		total += score
	}

	facets := facetCoverage(dims)
	band := confidenceBand(total, dims, problem.EvidenceStrength, cfg)
	label := coverageLabel(facets, band)

	var flags []string
	if band == domain.ConfidenceMedium && total >= cfg.BorderlineLow && total <= cfg.BorderlineHigh {
		flags = append(flags, FlagBorderlineMedium)
	}
	if band == domain.ConfidenceHigh && problem.EvidenceStrength <= 1 {
		flags = append(flags, FlagHighNeedsReview)
	}

	return domain.ScoredEdge{
		ProblemID:       problem.ProblemID,
		StoryID:         story.StoryID,
		Dimensions:      dims,
		TotalScore:      total,
		ConfidenceBand:  band,
		FacetCoverage:   facets,
		CoverageLabel:   label,
		CausalRationale: causalRationale(problem, story, dims),
		Provenance: domain.Provenance{
			CreatedAt:  time.Now().UTC(),
			RunID:      cfg.RunID,
			Ruleset:    rulesetVersion,
			Thresholds: rulesetThresholds,
		},
		Flags: flags,
	}
}

// ScoreAll filters and scores every candidate pair, preserving the
// deterministic pair order produced by ProposePairs.
func ScoreAll(problems []domain.NormalizedProblem, stories []domain.ParsedStory, cfg Config) []domain.ScoredEdge {
	pairs := ProposePairs(problems, stories, cfg)
	edges := make([]domain.ScoredEdge, 0, len(pairs))
	for _, pair := range pairs {
		edges = append(edges, ScorePair(pair.Problem, pair.Story, cfg))
	}
	return edges
}

func facetCoverage(dims map[string]int) map[string]bool {
	return map[string]bool{
		domain.FacetPersona:     dims[domain.DimPersona] == 2,
		domain.FacetCapability:  dims[domain.DimCapability] >= 1,
		domain.FacetCausalRoot:  dims[domain.DimCausal] == 2,
		domain.FacetValue:       dims[domain.DimValue] >= 1,
		domain.FacetGovernance:  dims[domain.DimGovernance] >= 1,
		domain.FacetGranularity: dims[domain.DimGranularity] >= 1,
	}
}

// confidenceBand maps the total score onto a band, then applies the evidence
// downgrade: a claim without supporting evidence cannot reach High on text
// similarity alone unless both capability and causal coverage are perfect.
func confidenceBand(total int, dims map[string]int, evidenceStrength int, cfg Config) domain.ConfidenceBand {
	var band domain.ConfidenceBand
	switch {
	case total >= cfg.HighConfidence:
		band = domain.ConfidenceHigh
	case total >= cfg.MediumConfidence:
		band = domain.ConfidenceMedium
	case total > 0:
		band = domain.ConfidenceLow
	default:
		band = domain.ConfidenceNone
	}

	if band == domain.ConfidenceHigh && evidenceStrength == 0 {
		if !(dims[domain.DimCapability] == 2 && dims[domain.DimCausal] == 2) {
			band = domain.ConfidenceMedium
		}
	}
	return band
}

func coverageLabel(facets map[string]bool, band domain.ConfidenceBand) domain.CoverageLabel {
	if facets[domain.FacetCapability] && facets[domain.FacetCausalRoot] && facets[domain.FacetValue] {
		return domain.CoverageFull
	}
	if band == domain.ConfidenceHigh || band == domain.ConfidenceMedium {
		return domain.CoveragePartial
	}
	return domain.CoverageNone
}

// causalRationale builds the single explanatory sentence for the edge from
// already-computed field values.
func causalRationale(problem domain.NormalizedProblem, story domain.ParsedStory, dims map[string]int) string {
	switch {
	case dims[domain.DimCausal] == 2:
		return fmt.Sprintf("%s removes the barrier '%s' so %s achieves %s.",
			story.Capability, problem.Barrier, problem.Persona, problem.DesiredOutcome)
	case dims[domain.DimCapability] >= 1:
		return fmt.Sprintf("%s supports %s towards %s but does not fully remove '%s'.",
			story.Capability, problem.Persona, problem.DesiredOutcome, problem.Barrier)
	default:
		return fmt.Sprintf("%s is not clearly linked to overcoming '%s'.",
			story.Capability, problem.Barrier)
	}
}
