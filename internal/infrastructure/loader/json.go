package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storytrace/internal/corpus"
	"storytrace/internal/domain"
)

// JSONLoader reads corpora from JSON arrays or line-delimited JSON objects.
type JSONLoader struct{}

var (
	_ corpus.ProblemLoader = (*JSONLoader)(nil)
	_ corpus.StoryLoader   = (*JSONLoader)(nil)
)

// NewJSONLoader builds the JSON/JSONL strategy.
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// Extensions identifies the formats this loader claims.
func (l *JSONLoader) Extensions() []string {
	return []string{"json", "jsonl"}
}

// LoadProblems decodes problem records with the same field aliases as CSV.
func (l *JSONLoader) LoadProblems(ctx context.Context, path string) ([]domain.RawProblem, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	problems := make([]domain.RawProblem, 0, len(records))
	for _, record := range records {
		problems = append(problems, domain.RawProblem{
			ProblemID:   firstString(record, "problem_id", "id"),
			Text:        firstString(record, "text", "problem_text"),
			Stakeholder: firstString(record, "stakeholder"),
			Theme:       firstString(record, "theme"),
			Metadata:    metadataFrom(record, "problem_id", "id", "text", "problem_text", "stakeholder", "theme"),
		})
	}
	return problems, nil
}

// LoadStories decodes story records.
func (l *JSONLoader) LoadStories(ctx context.Context, path string) ([]domain.RawStory, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	stories := make([]domain.RawStory, 0, len(records))
	for _, record := range records {
		stories = append(stories, domain.RawStory{
			StoryID:   firstString(record, "story_id", "id"),
			Text:      firstString(record, "text", "story"),
			Rationale: firstString(record, "rationale"),
			Metadata:  metadataFrom(record, "story_id", "id", "text", "story", "rationale"),
		})
	}
	return stories, nil
}

func readRecords(path string) ([]map[string]any, error) {
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return readJSONLines(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func readJSONLines(path string) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return records, nil
}

func firstString(record map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := record[key]; ok {
			if text := stringify(value); text != "" {
				return text
			}
		}
	}
	return ""
}

func metadataFrom(record map[string]any, consumed ...string) map[string]string {
	skip := make(map[string]struct{}, len(consumed))
	for _, key := range consumed {
		skip[key] = struct{}{}
	}

	var metadata map[string]string
	for key, value := range record {
		if _, ok := skip[key]; ok {
			continue
		}
		if metadata == nil {
			metadata = map[string]string{}
		}
		metadata[key] = stringify(value)
	}
	return metadata
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
