package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuanyiying/molt/internal/molt/action"
	"github.com/xuanyiying/molt/internal/molt/planner"
	"github.com/xuanyiying/molt/pkg/molterrors"
)

// fakeFS is a minimal in-memory rename target: a set of existing paths, and
// a Rename implementation that moves an entry and fails like the real
// syscall would if the source is missing.
type fakeFS struct {
	exists map[string]bool
}

func newFakeFS(paths ...string) *fakeFS {
	f := &fakeFS{exists: make(map[string]bool)}
	for _, p := range paths {
		f.exists[p] = true
	}
	return f
}

func (f *fakeFS) rename(oldpath, newpath string) error {
	if !f.exists[oldpath] {
		return errors.New("no such file or directory")
	}
	delete(f.exists, oldpath)
	f.exists[newpath] = true
	return nil
}

func planBatch(t *testing.T, fs *fakeFS, pairs [][2]string) (*action.Table, action.Counters) {
	t.Helper()
	tab := action.NewTable()
	res := action.NewReservations()
	eng := planner.NewEngine(tab, res)
	eng.Exists = func(p string) bool { return fs.exists[p] }

	for _, pair := range pairs {
		a := tab.Add("/w", pair[0])
		if pair[1] != "" {
			full, baseIdx := canon(pair[1])
			a.NewFull = full
			a.NewBase = full[baseIdx:]
		}
	}
	eng.PlanAll()
	return tab, eng.Counters
}

func canon(p string) (string, int) {
	tab := action.NewTable()
	a := tab.Add("/w", p)
	return a.OrigFull, len(a.OrigFull) - len(a.OrigBase)
}

func TestExecutorSimpleRename(t *testing.T) {
	fs := newFakeFS("/w/a")
	tab, counters := planBatch(t, fs, [][2]string{{"a", "b"}})

	ex := &Executor{Table: tab, Counters: counters, Rename: fs.rename}
	outcomes, code := ex.Run()

	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, molterrors.Code(0), code)
	assert.True(t, fs.exists["/w/b"])
	assert.False(t, fs.exists["/w/a"])
}

func TestExecutorSwapCycleStagesThroughTempName(t *testing.T) {
	fs := newFakeFS("/w/a", "/w/b")
	tab, counters := planBatch(t, fs, [][2]string{{"a", "b"}, {"b", "a"}})

	ex := &Executor{Table: tab, Counters: counters, Rename: fs.rename}
	outcomes, _ := ex.Run()

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
	}
	assert.True(t, fs.exists["/w/b"], "a's original contents now at b")
	assert.True(t, fs.exists["/w/a"], "b's original contents now at a")
	assert.Len(t, fs.exists, 2)
}

func TestExecutorConflictGatedWithoutContinueOnError(t *testing.T) {
	fs := newFakeFS("/w/a", "/w/c")
	tab, counters := planBatch(t, fs, [][2]string{{"a", "b"}, {"c", "b"}})
	require.Equal(t, 2, counters.NbConflicts)

	ex := &Executor{Table: tab, Counters: counters, Rename: fs.rename}
	outcomes, code := ex.Run()

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.Error(t, o.Err)
	}
	assert.True(t, fs.exists["/w/a"], "no rename performed when conflicts gate execution")
	assert.True(t, fs.exists["/w/c"])
	assert.True(t, code.Has(molterrors.RenameConflict))
}

func TestExecutorDryRunNeverRenames(t *testing.T) {
	fs := newFakeFS("/w/a")
	tab, counters := planBatch(t, fs, [][2]string{{"a", "b"}})

	ex := &Executor{Table: tab, Counters: counters, Options: Options{DryRun: true}, Rename: fs.rename}
	outcomes, _ := ex.Run()

	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)
	assert.True(t, fs.exists["/w/a"], "dry-run must not touch the filesystem")
}

func TestExecutorRenameFailureIsReported(t *testing.T) {
	fs := newFakeFS() // "/w/a" deliberately absent, so the rename fails
	tab, counters := planBatch(t, fs, [][2]string{{"a", "b"}})

	ex := &Executor{Table: tab, Counters: counters, Rename: fs.rename}
	outcomes, code := ex.Run()

	require.Len(t, outcomes, 1)
	assert.Error(t, outcomes[0].Err)
	assert.True(t, code.Has(molterrors.RenameFailure))
}
