package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storytrace/internal/domain"
)

func TestProblemFullExtraction(t *testing.T) {
	t.Parallel()

	got := Problem(domain.RawProblem{
		ProblemID: "P1",
		Text:      "As a data analyst, I am unable to pass compliance reviews because of missing audit trails, so that deadlines slip.",
	})

	assert.Equal(t, "P1", got.ProblemID)
	assert.Equal(t, "data analyst", got.Persona)
	assert.Equal(t, "deadlines slip", got.DesiredOutcome, "a so-that clause overrides the plain to-clause")
	assert.Equal(t, "missing audit trails", got.Barrier)
	assert.Equal(t, "deadlines slip", got.ValueIntent)
	assert.Equal(t, domain.UtteranceFailureToAct, got.UtteranceType)
	assert.Equal(t, "data analyst cannot achieve deadlines slip because of missing audit trails.", got.CanonicalStatement)
	assert.Contains(t, got.DomainTerms, "compliance")
	assert.Contains(t, got.DomainTerms, "missing")
}

func TestProblemDefaults(t *testing.T) {
	t.Parallel()

	got := Problem(domain.RawProblem{ProblemID: "P2", Text: "Everything hurts"})

	assert.Equal(t, "Stakeholder", got.Persona)
	assert.Equal(t, "desired outcome", got.DesiredOutcome)
	assert.Equal(t, "an unspecified barrier", got.Barrier)
	assert.Equal(t, "Everything hurts", got.ValueIntent, "value falls back to the last sentence")
	assert.Equal(t, domain.UtterancePainStatement, got.UtteranceType)
	assert.Equal(t, 0, got.EvidenceStrength)
}

func TestPersonaInference(t *testing.T) {
	t.Parallel()

	stakeholder := Problem(domain.RawProblem{Text: "as a clerk, things break", Stakeholder: " Compliance Lead "})
	assert.Equal(t, "Compliance Lead", stakeholder.Persona, "stakeholder field wins")

	role := Problem(domain.RawProblem{Text: "Exports are broken for finance team users."})
	assert.Equal(t, "Finance Team", role.Persona)
}

func TestBarrierDueTo(t *testing.T) {
	t.Parallel()

	got := Problem(domain.RawProblem{Text: "We want to ship reports due to customer demand."})
	assert.Equal(t, "customer demand", got.Barrier)
}

func TestValueIntentInOrderTo(t *testing.T) {
	t.Parallel()

	got := Problem(domain.RawProblem{Text: "Reporting is manual; in order to free up analysts we want automation."})
	assert.Equal(t, "free up analysts we want automation", got.ValueIntent)
}

func TestEvidenceStrength(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text        string
		stakeholder string
		want        int
	}{
		{"We are blocked on exports", "", 2},
		{"Regulatory pressure is mounting", "", 2},
		{"Anything at all", "Head of Data", 2},
		{"We need faster exports", "", 1},
		{"It is difficult to reconcile", "", 1},
		{"Exports feel sluggish", "", 0},
	}
	for _, tc := range cases {
		got := Problem(domain.RawProblem{Text: tc.text, Stakeholder: tc.stakeholder})
		assert.Equal(t, tc.want, got.EvidenceStrength, "text %q", tc.text)
	}
}

func TestUtteranceClassification(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.UtteranceType{
		"We need an audit trail":          domain.UtteranceStatedNeed,
		"I want fewer clicks":             domain.UtteranceStatedNeed,
		"Please handle this request soon": domain.UtteranceSolutionRequest,
		"The system should retry":         domain.UtteranceActionDescription,
		"Analysts cannot export data":     domain.UtteranceFailureToAct,
		"Constant friction during close":  domain.UtterancePainStatement,
		"Something unclassifiable":        domain.UtterancePainStatement,
	}
	for text, want := range cases {
		got := Problem(domain.RawProblem{Text: text})
		assert.Equal(t, want, got.UtteranceType, "text %q", text)
	}
}

func TestProblemsPreserveOrder(t *testing.T) {
	t.Parallel()

	got := Problems([]domain.RawProblem{
		{ProblemID: "P1", Text: "a"},
		{ProblemID: "P2", Text: "b"},
	})
	assert.Len(t, got, 2)
	assert.Equal(t, "P1", got[0].ProblemID)
	assert.Equal(t, "P2", got[1].ProblemID)
}
