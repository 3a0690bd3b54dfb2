package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storytrace/internal/domain"
)

func problemFixture() domain.NormalizedProblem {
	return domain.NormalizedProblem{
		ProblemID:        "P1",
		Persona:          "Data Analyst",
		DesiredOutcome:   "pass compliance reviews",
		Barrier:          "lack of audit trail",
		ValueIntent:      "reviews pass quickly",
		DomainTerms:      []string{"audit", "trail", "exports"},
		EvidenceStrength: 2,
	}
}

func storyFixture() domain.ParsedStory {
	return domain.ParsedStory{
		StoryID:          "S1",
		Persona:          "Data Analyst",
		Capability:       "add audit trail to exports",
		Outcome:          "reviews pass quickly",
		ValueIntent:      "reviews pass quickly",
		DomainTerms:      []string{"audit", "trail", "exports"},
		GovernanceSignal: 2,
		RawText:          "As a Data Analyst, I want to add audit trail to exports, so that reviews pass quickly.",
	}
}

func TestPersonaAlignment(t *testing.T) {
	t.Parallel()

	problem := problemFixture()
	story := storyFixture()

	assert.Equal(t, 2, PersonaAlignment(problem, story), "equal personas")

	story.Persona = "Senior Data Analyst"
	assert.Equal(t, 2, PersonaAlignment(problem, story), "subset persona")

	story.Persona = "Data Engineer"
	assert.Equal(t, 1, PersonaAlignment(problem, story), "shared token")

	story.Persona = "Product Owner"
	assert.Equal(t, 0, PersonaAlignment(problem, story), "disjoint personas")

	problem.Persona = ""
	story.Persona = "Data Analyst"
	assert.Equal(t, 0, PersonaAlignment(problem, story), "empty persona scores zero")
}

func TestCapabilityAlignment(t *testing.T) {
	t.Parallel()

	problem := problemFixture()
	story := storyFixture()

	// {pass compliance reviews lack audit trail} vs {add audit trail
	// exports}: overlap 2/sqrt(24) ≈ 0.41.
	assert.Equal(t, 1, CapabilityAlignment(problem, story))

	problem.DesiredOutcome = "audit trail"
	problem.Barrier = ""
	story.Capability = "audit trail"
	assert.Equal(t, 2, CapabilityAlignment(problem, story), "identical keyword sets")

	story.Capability = ""
	story.RawText = ""
	assert.Equal(t, 0, CapabilityAlignment(problem, story), "no story keywords at all")
}

func TestCapabilityAlignmentFallsBackToRawText(t *testing.T) {
	t.Parallel()

	problem := problemFixture()
	problem.DesiredOutcome = "audit trail"
	problem.Barrier = ""

	story := storyFixture()
	story.Capability = "to the" // stopwords only
	story.RawText = "audit trail"

	assert.Equal(t, 2, CapabilityAlignment(problem, story))
}

func TestCausalCoverage(t *testing.T) {
	t.Parallel()

	problem := problemFixture()
	story := storyFixture()

	// {lack audit trail} vs {add audit trail exports}: Jaccard 2/5 = 0.4.
	assert.Equal(t, 2, CausalCoverage(problem, story))

	story.Capability = "export data faster"
	assert.Equal(t, 0, CausalCoverage(problem, story), "no shared barrier terms")

	problem.Barrier = ""
	story.Capability = "add audit trail"
	assert.Equal(t, 0, CausalCoverage(problem, story), "empty barrier scores zero")
}

func TestGranularityFit(t *testing.T) {
	t.Parallel()

	problem := problemFixture()
	story := storyFixture()

	// (3+4) words / 5 words = 1.4.
	assert.Equal(t, 2, GranularityFit(problem, story))

	story.Capability = "add a fully configurable and filterable audit trail covering every export channel we support today and tomorrow as well"
	// 7 / 19 ≈ 0.37.
	assert.Equal(t, 1, GranularityFit(problem, story))

	story.Capability = "ship it"
	// 7 / 2 = 3.5.
	assert.Equal(t, 0, GranularityFit(problem, story))

	story.Capability = ""
	assert.Equal(t, 0, GranularityFit(problem, story), "zero capability words")
}

func TestValueAlignment(t *testing.T) {
	t.Parallel()

	problem := problemFixture()
	story := storyFixture()

	assert.Equal(t, 2, ValueAlignment(problem, story), "identical value intents")

	story.ValueIntent = "exports pass faster"
	// {reviews pass quickly} vs {exports pass faster}: 1/5 = 0.2.
	assert.Equal(t, 1, ValueAlignment(problem, story))

	story.ValueIntent = "nothing in common here"
	assert.Equal(t, 0, ValueAlignment(problem, story))

	problem.ValueIntent = ""
	story.ValueIntent = ""
	assert.Equal(t, 2, ValueAlignment(problem, story), "two empty intents count as identical")

	story.ValueIntent = "reviews pass quickly"
	assert.Equal(t, 0, ValueAlignment(problem, story), "one empty intent scores zero")
}

func TestGovernanceAlignment(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	problem := problemFixture()
	story := storyFixture()

	assert.Equal(t, 2, GovernanceAlignment(problem, story, cfg), "strong signal")

	story.GovernanceSignal = 0
	// Problem barrier carries "audit" and the story raw text does too.
	assert.Equal(t, 2, GovernanceAlignment(problem, story, cfg))

	story.RawText = "As an operator, I want faster exports."
	story.GovernanceSignal = 1
	problem.Barrier = "slow exports"
	problem.ValueIntent = "happy operators"
	assert.Equal(t, 1, GovernanceAlignment(problem, story, cfg), "weak signal alone")

	story.GovernanceSignal = 0
	assert.Equal(t, 1, GovernanceAlignment(problem, story, cfg), "plain term overlap: exports")

	story.RawText = "something else entirely"
	assert.Equal(t, 0, GovernanceAlignment(problem, story, cfg))
}

func TestEvidenceTransferClamps(t *testing.T) {
	t.Parallel()

	problem := problemFixture()
	for given, want := range map[int]int{-1: 0, 0: 0, 1: 1, 2: 2, 3: 2} {
		problem.EvidenceStrength = given
		assert.Equal(t, want, EvidenceTransfer(problem))
	}
}

// Every dimension stays in {0,1,2} no matter how degenerate the inputs are.
func TestDimensionsRangeOverDegenerateInputs(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	texts := []string{"", " ", "a", "the of to", "audit trail", "x-y-z 42 don't"}

	for _, personaText := range texts {
		for _, bodyText := range texts {
			problem := domain.NormalizedProblem{
				Persona:          personaText,
				DesiredOutcome:   bodyText,
				Barrier:          bodyText,
				ValueIntent:      bodyText,
				EvidenceStrength: 1,
			}
			story := domain.ParsedStory{
				Persona:          personaText,
				Capability:       bodyText,
				ValueIntent:      bodyText,
				RawText:          bodyText,
				GovernanceSignal: 1,
			}

			scores := []int{
				PersonaAlignment(problem, story),
				CapabilityAlignment(problem, story),
				CausalCoverage(problem, story),
				GranularityFit(problem, story),
				ValueAlignment(problem, story),
				GovernanceAlignment(problem, story, cfg),
				EvidenceTransfer(problem),
			}
			for i, score := range scores {
				assert.GreaterOrEqual(t, score, 0, "dimension %d for %q/%q", i, personaText, bodyText)
				assert.LessOrEqual(t, score, 2, "dimension %d for %q/%q", i, personaText, bodyText)
			}
		}
	}
}
