// Package loader implements the corpus loader strategies for the supported
// input formats (CSV, JSON/JSONL, Markdown, HTML).
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"storytrace/internal/corpus"
	"storytrace/internal/domain"
)

var problemColumnAliases = map[string][]string{
	"problem_id":  {"problem_id", "PR_ID", "id"},
	"text":        {"text", "problem_text"},
	"stakeholder": {"stakeholder", "persona"},
	"theme":       {"theme"},
}

var storyColumnAliases = map[string][]string{
	"story_id":  {"story_id", "BR_ID", "id"},
	"text":      {"text", "story_text"},
	"rationale": {"rationale"},
}

// CSVLoader reads problem and story corpora from header-addressed CSV files.
type CSVLoader struct{}

var (
	_ corpus.ProblemLoader = (*CSVLoader)(nil)
	_ corpus.StoryLoader   = (*CSVLoader)(nil)
)

// NewCSVLoader builds the CSV strategy.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Extensions identifies the formats this loader claims.
func (l *CSVLoader) Extensions() []string {
	return []string{"csv"}
}

// LoadProblems reads problem rows, resolving column aliases and collecting
// unrecognized columns into metadata.
func (l *CSVLoader) LoadProblems(ctx context.Context, path string) ([]domain.RawProblem, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	problems := make([]domain.RawProblem, 0, len(rows))
	for _, row := range rows {
		fields, metadata := splitRow(row, problemColumnAliases)
		id := fields["problem_id"]
		if id == "" {
			id = strconv.Itoa(len(problems) + 1)
		}
		problems = append(problems, domain.RawProblem{
			ProblemID:   id,
			Text:        fields["text"],
			Stakeholder: fields["stakeholder"],
			Theme:       fields["theme"],
			Metadata:    metadata,
		})
	}
	return problems, nil
}

// LoadStories reads story rows with the same alias handling.
func (l *CSVLoader) LoadStories(ctx context.Context, path string) ([]domain.RawStory, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	stories := make([]domain.RawStory, 0, len(rows))
	for _, row := range rows {
		fields, metadata := splitRow(row, storyColumnAliases)
		id := fields["story_id"]
		if id == "" {
			id = strconv.Itoa(len(stories) + 1)
		}
		stories = append(stories, domain.RawStory{
			StoryID:   id,
			Text:      fields["text"],
			Rationale: fields["rationale"],
			Metadata:  metadata,
		})
	}
	return stories, nil
}

// readCSV returns one map per data row keyed by header name.
func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// splitRow resolves aliased columns into canonical fields; everything the
// aliases do not consume lands in metadata.
func splitRow(row map[string]string, aliases map[string][]string) (map[string]string, map[string]string) {
	fields := map[string]string{}
	consumed := map[string]struct{}{}
	for canonical, names := range aliases {
		for _, name := range names {
			if value, ok := row[name]; ok {
				consumed[name] = struct{}{}
				if fields[canonical] == "" {
					fields[canonical] = value
				}
			}
		}
	}

	var metadata map[string]string
	for name, value := range row {
		if _, ok := consumed[name]; ok {
			continue
		}
		if metadata == nil {
			metadata = map[string]string{}
		}
		metadata[name] = value
	}
	return fields, metadata
}
