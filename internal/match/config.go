// Package match pairs normalized problems with parsed stories and grades each
// pair along seven alignment dimensions, producing scored edges and
// per-problem coverage summaries.
package match

// Ruleset version tags stamped into edge provenance. Audit metadata only.
const (
	rulesetVersion    = "rubric-rev2"
	rulesetThresholds = "12/8/8-11"
)

// Config carries the rubric thresholds and governance vocabulary. It is an
// explicit value passed to every entry point so scoring stays deterministic
// and testable in isolation.
type Config struct {
	HighConfidence   int
	MediumConfidence int
	BorderlineLow    int
	BorderlineHigh   int
	GovernanceTerms  []string

	// RunID is stamped into edge provenance when set. It never influences
	// scores or labels.
	RunID string
}

// DefaultConfig returns the canonical rubric configuration.
func DefaultConfig() Config {
	return Config{
		HighConfidence:   12,
		MediumConfidence: 8,
		BorderlineLow:    8,
		BorderlineHigh:   11,
		GovernanceTerms:  []string{"policy", "governance", "audit", "lineage", "approval"},
	}
}

func (c Config) governanceTermSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.GovernanceTerms))
	for _, term := range c.GovernanceTerms {
		set[term] = struct{}{}
	}
	return set
}
