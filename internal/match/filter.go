package match

import (
	"strings"

	"storytrace/internal/domain"
)

// Pair is a (problem, story) combination selected for full scoring.
type Pair struct {
	Problem domain.NormalizedProblem
	Story   domain.ParsedStory
}

// CandidatePair reports whether the pair is worth full rubric evaluation:
// aligned personas, overlapping domain terms, or a governance-flagged story
// whose configured governance term shows up in the problem's barrier.
func CandidatePair(problem domain.NormalizedProblem, story domain.ParsedStory, cfg Config) bool {
	if PersonaAlignment(problem, story) > 0 {
		return true
	}
	if domainTermsIntersect(problem.DomainTerms, story.DomainTerms) {
		return true
	}
	if story.GovernanceSignal >= 1 {
		barrier := strings.ToLower(problem.Barrier)
		for _, term := range cfg.GovernanceTerms {
			if term != "" && strings.Contains(barrier, strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}

// ProposePairs selects the candidate pairs to score: all qualifying stories
// for the first problem in story input order, then the next problem, and so
// on. The ordering is deterministic for identical inputs; duplicate IDs are
// the caller's responsibility.
func ProposePairs(problems []domain.NormalizedProblem, stories []domain.ParsedStory, cfg Config) []Pair {
	var pairs []Pair
	for _, problem := range problems {
		for _, story := range stories {
			if CandidatePair(problem, story, cfg) {
				pairs = append(pairs, Pair{Problem: problem, Story: story})
			}
		}
	}
	return pairs
}

func domainTermsIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, term := range a {
		seen[strings.ToLower(term)] = struct{}{}
	}
	for _, term := range b {
		if _, ok := seen[strings.ToLower(term)]; ok {
			return true
		}
	}
	return false
}
