package domain

import (
	"strings"
	"time"
)

// RawProblem is a problem statement as gathered from discovery artifacts.
type RawProblem struct {
	ProblemID   string
	Text        string
	Stakeholder string
	Theme       string
	Metadata    map[string]string
}

// RawStory is an unparsed user story.
type RawStory struct {
	StoryID   string
	Text      string
	Rationale string
	Metadata  map[string]string
}

// UtteranceType classifies how a problem statement expresses itself.
type UtteranceType string

const (
	UtteranceStatedNeed        UtteranceType = "stated_need"
	UtteranceSolutionRequest   UtteranceType = "solution_request"
	UtteranceActionDescription UtteranceType = "action_description"
	UtteranceFailureToAct      UtteranceType = "failure_to_act"
	UtterancePainStatement     UtteranceType = "pain_statement"
)

// NormalizedProblem is a problem statement reduced to comparable facets.
// Instances are built once by the normalizer and never mutated afterwards.
type NormalizedProblem struct {
	ProblemID          string
	UtteranceType      UtteranceType
	CanonicalStatement string
	Persona            string
	DesiredOutcome     string
	Barrier            string
	ValueIntent        string
	DomainTerms        []string
	EvidenceStrength   int
	RawText            string
	Stakeholder        string
	Theme              string
	Metadata           map[string]string
}

// ParsedStory is a user story reduced to comparable facets.
type ParsedStory struct {
	StoryID          string
	Persona          string
	Capability       string
	Outcome          string
	ValueIntent      string
	DomainTerms      []string
	GovernanceSignal int
	RawText          string
	Metadata         map[string]string
}

// ConfidenceBand is the coarse trust label attached to a scored edge.
type ConfidenceBand string

const (
	ConfidenceNone   ConfidenceBand = "None"
	ConfidenceLow    ConfidenceBand = "Low"
	ConfidenceMedium ConfidenceBand = "Medium"
	ConfidenceHigh   ConfidenceBand = "High"
)

// CoverageLabel states how completely a story resolves a problem.
type CoverageLabel string

const (
	CoverageNone    CoverageLabel = "None"
	CoveragePartial CoverageLabel = "Partial"
	CoverageFull    CoverageLabel = "Full"
)

// Dimension names in canonical output order.
const (
	DimPersona     = "persona_alignment"
	DimCapability  = "capability_alignment"
	DimCausal      = "causal_coverage"
	DimGranularity = "granularity_fit"
	DimValue       = "value_alignment"
	DimGovernance  = "governance_alignment"
	DimEvidence    = "evidence_strength_transfer"
)

// DimensionNames lists all seven scoring dimensions in canonical order.
var DimensionNames = []string{
	DimPersona,
	DimCapability,
	DimCausal,
	DimGranularity,
	DimValue,
	DimGovernance,
	DimEvidence,
}

// Facet names in canonical output order.
const (
	FacetPersona     = "persona"
	FacetCapability  = "capability"
	FacetCausalRoot  = "causal_root"
	FacetValue       = "value"
	FacetGovernance  = "governance"
	FacetGranularity = "granularity_compatible"
)

// FacetNames lists all six coverage facets in canonical order.
var FacetNames = []string{
	FacetPersona,
	FacetCapability,
	FacetCausalRoot,
	FacetValue,
	FacetGovernance,
	FacetGranularity,
}

// EssentialFacets are the facets a story must cover to fully resolve a problem.
var EssentialFacets = []string{FacetCapability, FacetCausalRoot, FacetValue}

// Provenance records when and under which ruleset an edge was produced.
// It is audit metadata only and never influences scores or labels.
type Provenance struct {
	CreatedAt  time.Time `json:"created_at"`
	RunID      string    `json:"run_id"`
	Ruleset    string    `json:"ruleset"`
	Thresholds string    `json:"thresholds"`
}

// ScoredEdge is the judgment for one (problem, story) pair. Created once by
// the edge judge and never mutated afterwards.
type ScoredEdge struct {
	ProblemID       string
	StoryID         string
	Dimensions      map[string]int
	TotalScore      int
	ConfidenceBand  ConfidenceBand
	FacetCoverage   map[string]bool
	CoverageLabel   CoverageLabel
	CausalRationale string
	Provenance      Provenance
	Flags           []string
}

// CoverageSummary aggregates all edges of one problem into a review verdict.
type CoverageSummary struct {
	ProblemID        string
	BestConfidence   ConfidenceBand
	BestCoverage     CoverageLabel
	UnresolvedFacets []string
	Escalate         bool
	EscalateReasons  []string
}

// RunArtifacts bundles everything one pipeline run produces.
type RunArtifacts struct {
	RunID     string
	Problems  []NormalizedProblem
	Stories   []ParsedStory
	Edges     []ScoredEdge
	Summaries []CoverageSummary
}

// EscalationItem is one escalated problem inside a review digest.
type EscalationItem struct {
	ProblemID        string   `json:"problem_id"`
	BestConfidence   string   `json:"best_confidence"`
	EscalateReasons  []string `json:"escalate_reasons"`
	UnresolvedFacets []string `json:"unresolved_facets"`
}

// EscalationDigest is the payload published after a run for human review.
type EscalationDigest struct {
	RunID string           `json:"run_id"`
	Items []EscalationItem `json:"items"`
}

// DomainTerms trims, lowercases, and de-duplicates terms while preserving
// insertion order.
func DomainTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	ordered := make([]string, 0, len(terms))
	for _, term := range terms {
		normalized := strings.ToLower(strings.TrimSpace(term))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		ordered = append(ordered, normalized)
	}
	return ordered
}
