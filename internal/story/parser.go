// Package story parses raw user stories into comparable facets.
package story

import (
	"regexp"
	"strings"

	"storytrace/internal/domain"
	"storytrace/internal/textutil"
)

var (
	// The canonical "As a X, I want Y, so that Z" shape, tried with the
	// value clause first so the capability does not swallow it.
	storyWithValuePattern = regexp.MustCompile(`(?i)as an? ([^,]+),\s*i want (.+?),?\s*so that ([^.]+)`)
	storyPattern          = regexp.MustCompile(`(?i)as an? ([^,]+),\s*i want ([^.]+)`)
	needPattern           = regexp.MustCompile(`(?i)i need to ([^.,]+)`)
)

// strongGovernanceTerms push the signal straight to 2.
var strongGovernanceTerms = []string{"policy", "audit", "governance", "lineage"}

// governanceKeywords is the wider vocabulary worth a signal of 1.
var governanceKeywords = []string{
	"audit", "auditable", "policy", "control", "governance", "approval",
	"workflow", "compliance", "lineage", "role", "security", "permission",
	"access",
}

const defaultPersona = "Stakeholder"

// Parse reduces one raw story to its comparable facets. Stories that do not
// match the canonical shape fall back to their trimmed raw text.
func Parse(raw domain.RawStory) domain.ParsedStory {
	trimmed := strings.TrimSpace(raw.Text)

	persona := defaultPersona
	capability := trimmed
	outcome := trimmed
	value := trimmed

	if m := storyWithValuePattern.FindStringSubmatch(raw.Text); m != nil {
		persona = strings.TrimSpace(m[1])
		capability = strings.TrimSpace(m[2])
		outcome = strings.TrimSpace(m[3])
		value = outcome
	} else if m := storyPattern.FindStringSubmatch(raw.Text); m != nil {
		persona = strings.TrimSpace(m[1])
		capability = strings.TrimSpace(m[2])
		outcome = capability
		value = capability
	} else if m := needPattern.FindStringSubmatch(raw.Text); m != nil {
		capability = strings.TrimSpace(m[1])
		outcome = capability
		value = capability
	}

	return domain.ParsedStory{
		StoryID:          raw.StoryID,
		Persona:          persona,
		Capability:       capability,
		Outcome:          outcome,
		ValueIntent:      value,
		DomainTerms:      domain.DomainTerms(textutil.KeyphraseCandidates(capability + " " + outcome)),
		GovernanceSignal: GovernanceSignal(raw.Text),
		RawText:          raw.Text,
		Metadata:         raw.Metadata,
	}
}

// ParseAll parses a collection in input order.
func ParseAll(raws []domain.RawStory) []domain.ParsedStory {
	stories := make([]domain.ParsedStory, 0, len(raws))
	for _, raw := range raws {
		stories = append(stories, Parse(raw))
	}
	return stories
}

// GovernanceSignal grades the strength of policy/audit/compliance language in
// the story text: 2 for the strong vocabulary, 1 for the wider one, else 0.
func GovernanceSignal(text string) int {
	lowered := strings.ToLower(text)
	for _, term := range strongGovernanceTerms {
		if strings.Contains(lowered, term) {
			return 2
		}
	}
	for _, term := range governanceKeywords {
		if strings.Contains(lowered, term) {
			return 1
		}
	}
	return 0
}
