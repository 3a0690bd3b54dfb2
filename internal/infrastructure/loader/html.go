package loader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"storytrace/internal/corpus"
	"storytrace/internal/domain"
)

// HTMLLoader extracts story blocks from HTML exports of backlog documents.
// The expected shape mirrors the Markdown backlog: <h4>ID: Title</h4>
// headings followed by list items, with nested list items carrying the
// rationale and an "Acceptance Criteria" item ending the story text.
type HTMLLoader struct{}

var _ corpus.StoryLoader = (*HTMLLoader)(nil)

// NewHTMLLoader builds the HTML strategy.
func NewHTMLLoader() *HTMLLoader {
	return &HTMLLoader{}
}

// Extensions identifies the formats this loader claims.
func (l *HTMLLoader) Extensions() []string {
	return []string{"html", "htm"}
}

// LoadStories parses the document and assembles one story per heading.
func (l *HTMLLoader) LoadStories(ctx context.Context, path string) ([]domain.RawStory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	doc, err := goquery.NewDocumentFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var stories []domain.RawStory
	doc.Find("h4").Each(func(_ int, heading *goquery.Selection) {
		id, ok := splitHeading(heading.Text())
		if !ok {
			return
		}

		var text []string
		var rationale []string
		collecting := true
		heading.NextUntil("h4").Find("li").Each(func(_ int, item *goquery.Selection) {
			content := strings.TrimSpace(ownText(item))
			if content == "" {
				return
			}
			if strings.HasPrefix(content, "Acceptance Criteria") {
				collecting = false
				return
			}
			if item.ParentsFiltered("li").Length() > 0 {
				rationale = append(rationale, content)
				return
			}
			if collecting {
				text = append(text, content)
			}
		})

		if len(text) == 0 {
			return
		}
		stories = append(stories, domain.RawStory{
			StoryID:   id,
			Text:      strings.Join(text, " "),
			Rationale: strings.Join(rationale, "\n"),
		})
	})

	return stories, nil
}

// ownText returns the item's text without the text of any nested lists.
func ownText(item *goquery.Selection) string {
	clone := item.Clone()
	clone.Find("ul, ol").Remove()
	return clone.Text()
}

func splitHeading(text string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(text), ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	id := strings.TrimSpace(parts[0])
	if strings.ContainsAny(id, " \t") {
		return "", false
	}
	return id, true
}
