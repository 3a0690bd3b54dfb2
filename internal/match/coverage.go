package match

import (
	"sort"
	"strings"

	"storytrace/internal/domain"
)

// Escalation reason tags, emitted sorted and de-duplicated.
const (
	ReasonNoPairs             = "no_pairs"
	ReasonNoFullCoverage      = "no_full_coverage"
	ReasonBorderlineMedium    = "borderline_medium"
	ReasonHighWithLowEvidence = "high_with_low_evidence"
	ReasonResidualGaps        = "residual_gaps"
)

// CoverageSummaries derives one summary per problem, in problems input order,
// from the edges scored this run. Problems without a single candidate edge
// get a synthetic summary that always escalates. Edges whose problem_id is
// not in the problems sequence contribute to no summary.
func CoverageSummaries(problems []domain.NormalizedProblem, edges []domain.ScoredEdge) []domain.CoverageSummary {
	grouped := make(map[string][]domain.ScoredEdge)
	for _, edge := range edges {
		grouped[edge.ProblemID] = append(grouped[edge.ProblemID], edge)
	}

	summaries := make([]domain.CoverageSummary, 0, len(problems))
	for _, problem := range problems {
		group, ok := grouped[problem.ProblemID]
		if !ok || len(group) == 0 {
			summaries = append(summaries, domain.CoverageSummary{
				ProblemID:        problem.ProblemID,
				BestConfidence:   domain.ConfidenceNone,
				BestCoverage:     domain.CoverageNone,
				UnresolvedFacets: append([]string(nil), domain.FacetNames...),
				Escalate:         true,
				EscalateReasons:  []string{ReasonNoPairs},
			})
			continue
		}
		summaries = append(summaries, summarize(problem, group))
	}
	return summaries
}

func summarize(problem domain.NormalizedProblem, group []domain.ScoredEdge) domain.CoverageSummary {
	// Ties on total score resolve to the earliest edge for determinism.
	best := group[0]
	for _, edge := range group[1:] {
		if edge.TotalScore > best.TotalScore {
			best = edge
		}
	}

	unresolved := unresolvedFacets(group)
	reasons := escalateReasons(problem, group, unresolved)

	return domain.CoverageSummary{
		ProblemID:        problem.ProblemID,
		BestConfidence:   best.ConfidenceBand,
		BestCoverage:     best.CoverageLabel,
		UnresolvedFacets: unresolved,
		Escalate:         len(reasons) > 0,
		EscalateReasons:  reasons,
	}
}

// unresolvedFacets lists, in canonical order, the facets no edge in the group
// covers.
func unresolvedFacets(group []domain.ScoredEdge) []string {
	unresolved := make([]string, 0, len(domain.FacetNames))
	for _, facet := range domain.FacetNames {
		covered := false
		for _, edge := range group {
			if edge.FacetCoverage[facet] {
				covered = true
				break
			}
		}
		if !covered {
			unresolved = append(unresolved, facet)
		}
	}
	return unresolved
}

func escalateReasons(problem domain.NormalizedProblem, group []domain.ScoredEdge, unresolved []string) []string {
	seen := map[string]struct{}{}
	add := func(reason string) {
		seen[reason] = struct{}{}
	}

	fullCovered := false
	for _, edge := range group {
		if edge.CoverageLabel == domain.CoverageFull {
			fullCovered = true
		}
		for _, flag := range edge.Flags {
			if strings.Contains(flag, "borderline") {
				add(ReasonBorderlineMedium)
			}
		}
		if edge.ConfidenceBand == domain.ConfidenceHigh && problem.EvidenceStrength <= 1 {
			add(ReasonHighWithLowEvidence)
		}
	}
	if !fullCovered {
		add(ReasonNoFullCoverage)
	}
	for _, essential := range domain.EssentialFacets {
		for _, facet := range unresolved {
			if facet == essential {
				add(ReasonResidualGaps)
			}
		}
	}

	reasons := make([]string, 0, len(seen))
	for reason := range seen {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	return reasons
}
