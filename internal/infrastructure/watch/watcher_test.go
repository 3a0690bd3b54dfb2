package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherFiresAfterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "problems.csv")
	require.NoError(t, os.WriteFile(path, []byte("problem_id,text\n"), 0o644))

	fired := make(chan time.Time, 1)
	watcher := NewFileWatcher([]string{path}, 50*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx, func(at time.Time) {
		select {
		case fired <- at:
		default:
		}
	}))
	defer watcher.Stop(context.Background())

	// Give the watcher a moment to register before mutating the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("problem_id,text\nP1,updated\n"), 0o644))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not fire after file write")
	}
}

func TestFileWatcherIgnoresUnwatchedFiles(t *testing.T) {
	dir := t.TempDir()
	watchedPath := filepath.Join(dir, "problems.csv")
	otherPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watchedPath, []byte("x"), 0o644))

	fired := make(chan time.Time, 1)
	watcher := NewFileWatcher([]string{watchedPath}, 50*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx, func(at time.Time) {
		select {
		case fired <- at:
		default:
		}
	}))
	defer watcher.Stop(context.Background())

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(otherPath, []byte("irrelevant"), 0o644))

	select {
	case <-fired:
		t.Fatal("job fired for an unwatched file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestFileWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "problems.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	watcher := NewFileWatcher([]string{path}, 50*time.Millisecond, zerolog.Nop())
	require.NoError(t, watcher.Start(context.Background(), func(time.Time) {}))
	require.NoError(t, watcher.Stop(context.Background()))
	require.NoError(t, watcher.Stop(context.Background()))
}

func TestFileWatcherNilJob(t *testing.T) {
	watcher := NewFileWatcher(nil, 0, zerolog.Nop())
	require.NoError(t, watcher.Start(context.Background(), nil))
	require.NoError(t, watcher.Stop(context.Background()))
}
