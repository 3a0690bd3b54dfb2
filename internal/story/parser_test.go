package story

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storytrace/internal/domain"
)

func TestParseCanonicalShape(t *testing.T) {
	t.Parallel()

	raw := domain.RawStory{
		StoryID: "S1",
		Text:    "As a data analyst, I want audit trails added to exports, so that compliance reviews pass quickly.",
	}

	got := Parse(raw)

	assert.Equal(t, "S1", got.StoryID)
	assert.Equal(t, "data analyst", got.Persona)
	assert.Equal(t, "audit trails added to exports", got.Capability)
	assert.Equal(t, "compliance reviews pass quickly", got.Outcome)
	assert.Equal(t, got.Outcome, got.ValueIntent)
	assert.Equal(t, 2, got.GovernanceSignal)
	assert.Contains(t, got.DomainTerms, "audit")
	assert.Contains(t, got.DomainTerms, "exports")
	assert.Equal(t, raw.Text, got.RawText)
}

func TestParseWithoutValueClause(t *testing.T) {
	t.Parallel()

	got := Parse(domain.RawStory{
		StoryID: "S2",
		Text:    "As an administrator, I want to lock down access.",
	})

	assert.Equal(t, "administrator", got.Persona)
	assert.Equal(t, "to lock down access", got.Capability)
	assert.Equal(t, got.Capability, got.Outcome)
	assert.Equal(t, got.Capability, got.ValueIntent)
	assert.Equal(t, 1, got.GovernanceSignal)
}

func TestParseNeedShape(t *testing.T) {
	t.Parallel()

	got := Parse(domain.RawStory{
		StoryID: "S3",
		Text:    "I need to export the ledger weekly.",
	})

	assert.Equal(t, "Stakeholder", got.Persona)
	assert.Equal(t, "export the ledger weekly", got.Capability)
	assert.Equal(t, got.Capability, got.Outcome)
}

func TestParseFallbackToRawText(t *testing.T) {
	t.Parallel()

	got := Parse(domain.RawStory{
		StoryID: "S4",
		Text:    "  Fix the export button.  ",
	})

	assert.Equal(t, "Stakeholder", got.Persona)
	assert.Equal(t, "Fix the export button.", got.Capability)
	assert.Equal(t, "Fix the export button.", got.Outcome)
	assert.Equal(t, "Fix the export button.", got.ValueIntent)
	assert.Equal(t, 0, got.GovernanceSignal)
}

func TestGovernanceSignal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"strong audit", "so that an audit trail exists", 2},
		{"strong inside word", "records should be auditable", 2},
		{"policy", "aligned with the retention policy", 2},
		{"weak approval", "requires an approval workflow", 1},
		{"weak role", "respects role-based access", 1},
		{"none", "speed up the export button", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GovernanceSignal(tt.text))
		})
	}
}

func TestParseAllPreservesOrder(t *testing.T) {
	t.Parallel()

	raws := []domain.RawStory{
		{StoryID: "S1", Text: "As a clerk, I want faster forms."},
		{StoryID: "S2", Text: "I need to archive old records."},
	}

	got := ParseAll(raws)

	assert.Len(t, got, 2)
	assert.Equal(t, "S1", got[0].StoryID)
	assert.Equal(t, "S2", got[1].StoryID)
}
