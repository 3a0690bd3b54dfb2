package match

import (
	"strings"

	"storytrace/internal/domain"
	"storytrace/internal/textutil"
)

// The seven dimension scorers. Each is total over its inputs and returns a
// score in {0, 1, 2}; degenerate inputs (empty strings, empty keyword sets)
// score 0 unless noted otherwise.

// PersonaAlignment compares persona word sets: 2 when the sets are equal or
// one contains the other (both non-empty), 1 when they share a token, else 0.
func PersonaAlignment(problem domain.NormalizedProblem, story domain.ParsedStory) int {
	problemTokens := personaTokens(problem.Persona)
	storyTokens := personaTokens(story.Persona)
	if len(problemTokens) == 0 || len(storyTokens) == 0 {
		return 0
	}
	if isSubset(problemTokens, storyTokens) || isSubset(storyTokens, problemTokens) {
		return 2
	}
	if textutil.Intersects(problemTokens, storyTokens) {
		return 1
	}
	return 0
}

// CapabilityAlignment measures cosine overlap between the problem's
// outcome+barrier keywords and the story's capability keywords. When the
// capability yields no keywords the story's raw text stands in for it.
func CapabilityAlignment(problem domain.NormalizedProblem, story domain.ParsedStory) int {
	problemTerms := textutil.KeywordSet(problem.DesiredOutcome + " " + problem.Barrier)
	storyTerms := textutil.KeywordSet(story.Capability)
	if len(storyTerms) == 0 {
		storyTerms = textutil.KeywordSet(story.RawText)
	}
	overlap := textutil.CosineOverlap(problemTerms, storyTerms)
	switch {
	case overlap >= 0.5:
		return 2
	case overlap >= 0.2:
		return 1
	default:
		return 0
	}
}

// CausalCoverage measures Jaccard similarity between the problem's barrier
// keywords and the story's capability keywords.
func CausalCoverage(problem domain.NormalizedProblem, story domain.ParsedStory) int {
	barrierTerms := textutil.KeywordSet(problem.Barrier)
	capabilityTerms := textutil.KeywordSet(story.Capability)
	if len(barrierTerms) == 0 || len(capabilityTerms) == 0 {
		return 0
	}
	return thresholdScore(textutil.Jaccard(barrierTerms, capabilityTerms))
}

// GranularityFit compares the word-count ratio of problem outcome+barrier to
// story capability. A capability with zero words scores 0.
func GranularityFit(problem domain.NormalizedProblem, story domain.ParsedStory) int {
	problemLength := textutil.WordCount(problem.DesiredOutcome) + textutil.WordCount(problem.Barrier)
	storyLength := textutil.WordCount(story.Capability)
	if storyLength == 0 {
		return 0
	}
	ratio := float64(problemLength) / float64(storyLength)
	switch {
	case ratio >= 0.5 && ratio <= 1.5:
		return 2
	case ratio >= 0.3 && ratio <= 2.0:
		return 1
	default:
		return 0
	}
}

// ValueAlignment measures Jaccard similarity between value-intent keyword
// sets. It inherits the general Jaccard degenerate case: two empty intents
// count as identical.
func ValueAlignment(problem domain.NormalizedProblem, story domain.ParsedStory) int {
	problemTerms := textutil.KeywordSet(problem.ValueIntent)
	storyTerms := textutil.KeywordSet(story.ValueIntent)
	return thresholdScore(textutil.Jaccard(problemTerms, storyTerms))
}

// GovernanceAlignment combines the story's governance signal with term
// overlap against the configured governance vocabulary.
func GovernanceAlignment(problem domain.NormalizedProblem, story domain.ParsedStory, cfg Config) int {
	problemTerms := textutil.KeywordSet(problem.Barrier + " " + problem.ValueIntent)
	storyTerms := textutil.KeywordSet(story.RawText)
	strongTerms := cfg.governanceTermSet()

	problemGoverned := textutil.Intersects(problemTerms, strongTerms)
	storyGoverned := textutil.Intersects(storyTerms, strongTerms)
	if (story.GovernanceSignal == 2 || problemGoverned) && (story.GovernanceSignal >= 1 || storyGoverned) {
		return 2
	}
	if story.GovernanceSignal >= 1 || textutil.Intersects(problemTerms, storyTerms) {
		return 1
	}
	return 0
}

// EvidenceTransfer passes through the problem's evidence strength, clamped to
// the declared [0, 2] range.
func EvidenceTransfer(problem domain.NormalizedProblem) int {
	if problem.EvidenceStrength < 0 {
		return 0
	}
	if problem.EvidenceStrength > 2 {
		return 2
	}
	return problem.EvidenceStrength
}

// thresholdScore maps a Jaccard similarity onto the shared 0.4/0.2 rubric.
func thresholdScore(overlap float64) int {
	switch {
	case overlap >= 0.4:
		return 2
	case overlap >= 0.2:
		return 1
	default:
		return 0
	}
}

func personaTokens(persona string) map[string]struct{} {
	tokens := map[string]struct{}{}
	for _, field := range strings.Fields(strings.ToLower(persona)) {
		tokens[field] = struct{}{}
	}
	return tokens
}

func isSubset(inner, outer map[string]struct{}) bool {
	for token := range inner {
		if _, ok := outer[token]; !ok {
			return false
		}
	}
	return true
}
