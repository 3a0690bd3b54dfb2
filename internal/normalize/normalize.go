// Package normalize converts raw problem statements into the canonical facet
// representation used for matching. All heuristics are regex and keyword
// based and fully deterministic.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"storytrace/internal/domain"
	"storytrace/internal/textutil"
)

var (
	personaPattern = regexp.MustCompile(`(?i)as an? ([^,]+)`)
	rolePattern    = regexp.MustCompile(`(?i)for ([A-Za-z ]+?) users`)
	outcomePattern = regexp.MustCompile(`(?i)to ([^.,;]+)`)
	soThatPattern  = regexp.MustCompile(`(?i)so that ([^.,;]+)`)
	becausePattern = regexp.MustCompile(`(?i)because(?: of)? ([^.,;]+)`)
	dueToPattern   = regexp.MustCompile(`(?i)due to ([^.,;]+)`)
	inOrderPattern = regexp.MustCompile(`(?i)in order to ([^.,;]+)`)
)

var utteranceRules = []struct {
	pattern *regexp.Regexp
	label   domain.UtteranceType
}{
	{regexp.MustCompile(`(?i)\bneeds?\b`), domain.UtteranceStatedNeed},
	{regexp.MustCompile(`(?i)\bwant\b`), domain.UtteranceStatedNeed},
	{regexp.MustCompile(`(?i)\brequest\b`), domain.UtteranceSolutionRequest},
	{regexp.MustCompile(`(?i)\bshould\b`), domain.UtteranceActionDescription},
	{regexp.MustCompile(`(?i)\bcan't\b|cannot|unable`), domain.UtteranceFailureToAct},
	{regexp.MustCompile(`(?i)\bfail|friction|pain|struggle\b`), domain.UtterancePainStatement},
}

const (
	defaultPersona = "Stakeholder"
	defaultOutcome = "desired outcome"
	defaultBarrier = "an unspecified barrier"
)

// Problem converts one raw problem into its canonical representation.
func Problem(raw domain.RawProblem) domain.NormalizedProblem {
	persona := inferPersona(raw.Text, raw.Stakeholder)
	outcome, barrier := extractOutcomeAndBarrier(raw.Text)
	value := inferValueIntent(raw.Text)
	evidence := evidenceStrength(raw.Text, raw.Stakeholder)
	utterance := classifyUtterance(raw.Text)
	terms := domain.DomainTerms(textutil.KeyphraseCandidates(raw.Text))

	canonical := fmt.Sprintf("%s cannot achieve %s because of %s.", persona, outcome, barrier)
	canonical = strings.ReplaceAll(canonical, "  ", " ")

	return domain.NormalizedProblem{
		ProblemID:          raw.ProblemID,
		UtteranceType:      utterance,
		CanonicalStatement: canonical,
		Persona:            persona,
		DesiredOutcome:     outcome,
		Barrier:            barrier,
		ValueIntent:        value,
		DomainTerms:        terms,
		EvidenceStrength:   evidence,
		RawText:            raw.Text,
		Stakeholder:        raw.Stakeholder,
		Theme:              raw.Theme,
		Metadata:           raw.Metadata,
	}
}

// Problems normalizes a collection in input order.
func Problems(raws []domain.RawProblem) []domain.NormalizedProblem {
	problems := make([]domain.NormalizedProblem, 0, len(raws))
	for _, raw := range raws {
		problems = append(problems, Problem(raw))
	}
	return problems
}

func inferPersona(text, stakeholder string) string {
	if trimmed := strings.TrimSpace(stakeholder); trimmed != "" {
		return trimmed
	}
	if m := personaPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := rolePattern.FindStringSubmatch(text); m != nil {
		return titleCase(strings.TrimSpace(m[1]))
	}
	return defaultPersona
}

// extractOutcomeAndBarrier pulls the desired-outcome and barrier clauses. A
// "so that" clause overrides a plain "to" clause for the outcome.
func extractOutcomeAndBarrier(text string) (outcome, barrier string) {
	outcome = defaultOutcome
	barrier = defaultBarrier

	if m := outcomePattern.FindStringSubmatch(text); m != nil {
		outcome = strings.TrimSpace(m[1])
	}
	if m := soThatPattern.FindStringSubmatch(text); m != nil {
		outcome = strings.TrimSpace(m[1])
	}
	if m := becausePattern.FindStringSubmatch(text); m != nil {
		barrier = strings.TrimSpace(m[1])
	} else if m := dueToPattern.FindStringSubmatch(text); m != nil {
		barrier = strings.TrimSpace(m[1])
	}
	return outcome, barrier
}

func inferValueIntent(text string) string {
	if m := soThatPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := inOrderPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if sentences := textutil.SplitSentences(text); len(sentences) > 0 {
		return sentences[len(sentences)-1]
	}
	return strings.TrimSpace(text)
}

// evidenceStrength grades supporting evidence: regulatory or blocking
// language (or a stakeholder attribution) scores 2, mere need/struggle
// language scores 1, anything else 0.
func evidenceStrength(text, stakeholder string) int {
	lowered := strings.ToLower(text)
	for _, keyword := range []string{"must", "required", "blocked", "regulatory"} {
		if strings.Contains(lowered, keyword) {
			return 2
		}
	}
	if strings.TrimSpace(stakeholder) != "" {
		return 2
	}
	for _, keyword := range []string{"need", "should", "struggle", "difficult"} {
		if strings.Contains(lowered, keyword) {
			return 1
		}
	}
	return 0
}

func classifyUtterance(text string) domain.UtteranceType {
	for _, rule := range utteranceRules {
		if rule.pattern.MatchString(text) {
			return rule.label
		}
	}
	return domain.UtterancePainStatement
}

func titleCase(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	for i, field := range fields {
		fields[i] = strings.ToUpper(field[:1]) + field[1:]
	}
	return strings.Join(fields, " ")
}
