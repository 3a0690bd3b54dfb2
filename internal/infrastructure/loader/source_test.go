package loader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storytrace/internal/corpus"
)

func newTestSource() *FileSource {
	registry := corpus.NewRegistry()
	registry.RegisterProblems(NewCSVLoader(), NewJSONLoader())
	registry.RegisterStories(NewCSVLoader(), NewJSONLoader(), NewMarkdownLoader(), NewHTMLLoader())
	return NewFileSource(registry, zerolog.Nop())
}

func TestFileSourceLoadsByExtension(t *testing.T) {
	t.Parallel()

	source := newTestSource()
	path := writeFile(t, "problems.csv", "problem_id,text\nP1,Exports are slow.\n")

	got, err := source.LoadProblems(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "P1", got[0].ProblemID)
}

func TestFileSourceMissingFile(t *testing.T) {
	t.Parallel()

	source := newTestSource()

	_, err := source.LoadStories(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}

func TestFileSourceUnsupportedFormat(t *testing.T) {
	t.Parallel()

	source := newTestSource()
	path := writeFile(t, "problems.parquet", "binary")

	_, err := source.LoadProblems(context.Background(), path)
	assert.True(t, errors.Is(err, corpus.ErrUnsupportedFormat))
}
