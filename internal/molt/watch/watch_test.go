package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDispatchesOnMatchingCreate(t *testing.T) {
	dir := t.TempDir()
	seen := make(chan string, 1)

	w, err := New(dir, "*.txt", func(paths []string) error {
		seen <- paths[0]
		return nil
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go w.Run(ctx)

	target := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(target, []byte("hi"), 0o644))

	select {
	case p := <-seen:
		assert.Equal(t, target, p)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never dispatched a matching create event")
	}
}

func TestWatcherIgnoresNonMatchingCreate(t *testing.T) {
	dir := t.TempDir()
	seen := make(chan string, 1)

	w, err := New(dir, "*.txt", func(paths []string) error {
		seen <- paths[0]
		return nil
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.md"), []byte("hi"), 0o644))

	select {
	case <-seen:
		t.Fatal("watcher dispatched for a non-matching file")
	case <-time.After(500 * time.Millisecond):
	}
}
