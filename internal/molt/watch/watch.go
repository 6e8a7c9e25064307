// Package watch implements "molt watch": re-running the same rule
// pipeline and planner/executor whenever a new file matching a glob
// appears in a directory. This is purely an additional driver of the
// unchanged single-threaded engine — each triggered batch still runs
// through one sequential plan/execute cycle; watch never introduces
// concurrency within a cycle.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// RunBatch is called once per triggered batch with the newly created
// paths that matched the glob.
type RunBatch func(paths []string) error

// Watcher re-invokes run on every fsnotify create event under dir whose
// basename matches glob.
type Watcher struct {
	fsw  *fsnotify.Watcher
	dir  string
	glob string
	run  RunBatch
}

// New opens an fsnotify watch on dir. Callers must call Run to consume
// events, and Close (or cancel the context passed to Run) to release the
// underlying inotify/kqueue handle.
func New(dir, glob string, run RunBatch) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", dir, err)
	}
	return &Watcher{fsw: fsw, dir: dir, glob: glob, run: run}, nil
}

// Close releases the underlying watch handle.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks, dispatching one RunBatch call per matching create event,
// until ctx is cancelled or the underlying watch channel closes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Create) {
				continue
			}
			matched, err := filepath.Match(w.glob, filepath.Base(ev.Name))
			if err != nil {
				return fmt.Errorf("watch: bad glob %q: %w", w.glob, err)
			}
			if !matched {
				continue
			}
			if err := w.run([]string{ev.Name}); err != nil {
				return err
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}
