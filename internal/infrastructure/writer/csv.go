// Package writer serializes run artifacts to CSV files with fixed column
// sets.
package writer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"storytrace/internal/domain"
	"storytrace/internal/ports"
)

// Output artifact file names.
const (
	ProblemsFile = "Problems_Normalized.csv"
	StoriesFile  = "Stories_Parsed.csv"
	EdgesFile    = "Edges.csv"
	CoverageFile = "Coverage_Summary.csv"
)

// CSVWriter writes the four run artifacts into an output directory, creating
// it when absent.
type CSVWriter struct{}

var _ ports.ArtifactWriter = (*CSVWriter)(nil)

// NewCSVWriter builds the writer.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Write serializes all artifacts of one run.
func (w *CSVWriter) Write(outputDir string, artifacts domain.RunArtifacts) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outputDir, err)
	}

	if err := writeProblems(filepath.Join(outputDir, ProblemsFile), artifacts.Problems); err != nil {
		return err
	}
	if err := writeStories(filepath.Join(outputDir, StoriesFile), artifacts.Stories); err != nil {
		return err
	}
	if err := writeEdges(filepath.Join(outputDir, EdgesFile), artifacts.Edges); err != nil {
		return err
	}
	return writeCoverage(filepath.Join(outputDir, CoverageFile), artifacts.Summaries)
}

func writeProblems(path string, problems []domain.NormalizedProblem) error {
	header := []string{
		"problem_id", "utterance_type", "canonical_statement", "persona",
		"desired_outcome", "barrier", "domain_terms", "value_intent",
		"evidence_strength", "raw_text", "stakeholder", "theme",
	}
	rows := make([][]string, 0, len(problems))
	for _, problem := range problems {
		rows = append(rows, []string{
			problem.ProblemID,
			string(problem.UtteranceType),
			problem.CanonicalStatement,
			problem.Persona,
			problem.DesiredOutcome,
			problem.Barrier,
			strings.Join(problem.DomainTerms, ", "),
			problem.ValueIntent,
			strconv.Itoa(problem.EvidenceStrength),
			problem.RawText,
			problem.Stakeholder,
			problem.Theme,
		})
	}
	return writeFile(path, header, rows)
}

func writeStories(path string, stories []domain.ParsedStory) error {
	header := []string{
		"story_id", "persona", "capability", "outcome", "value_intent",
		"domain_terms", "governance_signal", "raw_text",
	}
	rows := make([][]string, 0, len(stories))
	for _, story := range stories {
		rows = append(rows, []string{
			story.StoryID,
			story.Persona,
			story.Capability,
			story.Outcome,
			story.ValueIntent,
			strings.Join(story.DomainTerms, ", "),
			strconv.Itoa(story.GovernanceSignal),
			story.RawText,
		})
	}
	return writeFile(path, header, rows)
}

func writeEdges(path string, edges []domain.ScoredEdge) error {
	header := append([]string{"problem_id", "story_id"}, domain.DimensionNames...)
	header = append(header,
		"total_score", "confidence_band", "coverage_label", "facets",
		"causal_rationale", "provenance", "flags",
	)

	rows := make([][]string, 0, len(edges))
	for _, edge := range edges {
		facets, err := json.Marshal(edge.FacetCoverage)
		if err != nil {
			return fmt.Errorf("marshal facets for %s/%s: %w", edge.ProblemID, edge.StoryID, err)
		}
		provenance, err := json.Marshal(edge.Provenance)
		if err != nil {
			return fmt.Errorf("marshal provenance for %s/%s: %w", edge.ProblemID, edge.StoryID, err)
		}

		row := []string{edge.ProblemID, edge.StoryID}
		for _, dim := range domain.DimensionNames {
			row = append(row, strconv.Itoa(edge.Dimensions[dim]))
		}
		row = append(row,
			strconv.Itoa(edge.TotalScore),
			string(edge.ConfidenceBand),
			string(edge.CoverageLabel),
			string(facets),
			edge.CausalRationale,
			string(provenance),
			strings.Join(edge.Flags, ", "),
		)
		rows = append(rows, row)
	}
	return writeFile(path, header, rows)
}

func writeCoverage(path string, summaries []domain.CoverageSummary) error {
	header := []string{
		"problem_id", "best_confidence", "best_coverage", "unresolved_facets",
		"escalate", "escalate_reasons",
	}
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		escalate := "no"
		if summary.Escalate {
			escalate = "yes"
		}
		rows = append(rows, []string{
			summary.ProblemID,
			string(summary.BestConfidence),
			string(summary.BestCoverage),
			strings.Join(summary.UnresolvedFacets, ", "),
			escalate,
			strings.Join(summary.EscalateReasons, ", "),
		})
	}
	return writeFile(path, header, rows)
}

func writeFile(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	csvWriter := csv.NewWriter(file)
	if err := csvWriter.Write(header); err != nil {
		_ = file.Close()
		return fmt.Errorf("write header %s: %w", path, err)
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		_ = file.Close()
		return fmt.Errorf("write rows %s: %w", path, err)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
