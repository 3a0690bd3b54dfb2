package loader

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"storytrace/internal/corpus"
	"storytrace/internal/domain"
)

var (
	storyHeadingPattern = regexp.MustCompile(`^#### ([A-Za-z0-9\-]+): (.+)$`)
	storyBulletPattern  = regexp.MustCompile(`(?i)^- as an? .+$`)
)

// MarkdownLoader extracts story blocks from Markdown backlogs: "#### ID:
// Title" headings followed by "As a ..." bullets, continuation bullets, and
// indented rationale bullets. An "Acceptance Criteria" bullet ends the story
// text.
type MarkdownLoader struct{}

var _ corpus.StoryLoader = (*MarkdownLoader)(nil)

// NewMarkdownLoader builds the Markdown strategy.
func NewMarkdownLoader() *MarkdownLoader {
	return &MarkdownLoader{}
}

// Extensions identifies the formats this loader claims.
func (l *MarkdownLoader) Extensions() []string {
	return []string{"md", "txt"}
}

// LoadStories reads the file and parses its story blocks.
func (l *MarkdownLoader) LoadStories(ctx context.Context, path string) ([]domain.RawStory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseStoryBlocks(strings.Split(string(raw), "\n")), nil
}

// ParseStoryBlocks walks the lines of a Markdown backlog and assembles raw
// stories from its heading/bullet structure.
func ParseStoryBlocks(lines []string) []domain.RawStory {
	var stories []domain.RawStory
	var currentID string
	var currentText []string
	var currentRationale []string
	inStory := false

	flush := func() {
		if currentID == "" || len(currentText) == 0 {
			return
		}
		stories = append(stories, domain.RawStory{
			StoryID:   currentID,
			Text:      strings.TrimSpace(strings.Join(currentText, " ")),
			Rationale: strings.TrimSpace(strings.Join(currentRationale, "\n")),
		})
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if m := storyHeadingPattern.FindStringSubmatch(stripped); m != nil {
			flush()
			currentID = m[1]
			currentText = nil
			currentRationale = nil
			inStory = false
			continue
		}
		if storyBulletPattern.MatchString(stripped) {
			inStory = true
			currentText = append(currentText, strings.TrimLeft(stripped, "- "))
			continue
		}
		if strings.HasPrefix(stripped, "- Acceptance Criteria") {
			inStory = false
			continue
		}
		if strings.HasPrefix(line, "  - ") {
			currentRationale = append(currentRationale, strings.TrimLeft(stripped, "- "))
			continue
		}
		if strings.HasPrefix(stripped, "- ") && inStory {
			currentText = append(currentText, strings.TrimLeft(stripped, "- "))
		}
	}
	flush()

	return stories
}
