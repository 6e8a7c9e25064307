package batch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuanyiying/molt/internal/molt/rules"
	"github.com/xuanyiying/molt/pkg/molterrors"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
}

func withCwd(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestRunSimpleRenameEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	withCwd(t, dir)

	specs := []rules.Spec{{Name: "replace", Params: []string{"a", "b"}}}
	var out, errOut bytes.Buffer
	code, _ := Run([]string{"a.txt"}, specs, Options{OutputMode: "standard"}, nil, &out, &errOut)

	assert.Equal(t, uint8(0), uint8(code))
	assert.FileExists(t, filepath.Join(dir, "b.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "a.txt"))
	assert.Contains(t, out.String(), "a.txt -> b.txt")
}

func TestRunSwapCycleStagesThroughTempName(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.txt")
	withCwd(t, dir)

	// stdin-names assigns one replacement name per input in order, which
	// is the natural way to drive a genuine swap cycle through the rule
	// pipeline: a.txt -> b.txt, b.txt -> a.txt.
	specs := []rules.Spec{{Name: "stdin-names"}}
	var out, errOut bytes.Buffer
	code, _ := Run([]string{"a.txt", "b.txt"}, specs, Options{}, bytes.NewBufferString("b.txt\na.txt\n"), &out, &errOut)

	assert.Equal(t, uint8(0), uint8(code))
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
	assert.FileExists(t, filepath.Join(dir, "b.txt"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunIntraBatchConflictBlocksRename(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "c.txt")
	withCwd(t, dir)

	specs := []rules.Spec{{Name: "replace", Params: []string{"a.txt|c.txt", "b.txt", "regex"}}}
	var out, errOut bytes.Buffer
	code, _ := Run([]string{"a.txt", "c.txt"}, specs, Options{}, nil, &out, &errOut)

	assert.NotEqual(t, uint8(0), uint8(code))
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
	assert.FileExists(t, filepath.Join(dir, "c.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "b.txt"))
	assert.NotEmpty(t, errOut.String())
}

func TestRunDryRunNeverTouchesDisk(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	withCwd(t, dir)

	specs := []rules.Spec{{Name: "replace", Params: []string{"a", "b"}}}
	var out, errOut bytes.Buffer
	code, _ := Run([]string{"a.txt"}, specs, Options{DryRun: true}, nil, &out, &errOut)

	assert.Equal(t, uint8(0), uint8(code))
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "b.txt"))
	assert.Contains(t, out.String(), "a.txt -> b.txt")
}

func TestRunOnlyRulesSkipsConflictDetection(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "c.txt")
	withCwd(t, dir)

	specs := []rules.Spec{{Name: "replace", Params: []string{"a.txt|c.txt", "b.txt", "regex"}}}
	var out, errOut bytes.Buffer
	code, _ := Run([]string{"a.txt", "c.txt"}, specs, Options{OnlyRules: true}, nil, &out, &errOut)

	assert.Equal(t, uint8(0), uint8(code))
	assert.FileExists(t, filepath.Join(dir, "a.txt"))
	assert.FileExists(t, filepath.Join(dir, "c.txt"))
	lines := out.String()
	assert.Contains(t, lines, "b.txt")
}

func TestRunFileNotFoundIsReportedNotFatal(t *testing.T) {
	dir := t.TempDir()
	withCwd(t, dir)

	specs := []rules.Spec{{Name: "case", Params: []string{"upper"}}}
	var out, errOut bytes.Buffer
	code, hadErrors := Run([]string{"missing.txt"}, specs, Options{}, nil, &out, &errOut)

	assert.NotEqual(t, uint8(0), uint8(code))
	assert.True(t, hadErrors)
	assert.Contains(t, errOut.String(), "missing.txt")
}

func TestRunHadErrorsIsFalseOnACleanRun(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	withCwd(t, dir)

	specs := []rules.Spec{{Name: "replace", Params: []string{"a", "b"}}}
	var out, errOut bytes.Buffer
	code, hadErrors := Run([]string{"a.txt"}, specs, Options{}, nil, &out, &errOut)

	assert.Equal(t, uint8(0), uint8(code))
	assert.False(t, hadErrors)
}

func TestExitCodeSubstitutesFallbackWhenErrorsButCodeIsZero(t *testing.T) {
	assert.Equal(t, 0, molterrors.ExitCode(false, 0))
	assert.Equal(t, 255, molterrors.ExitCode(true, 0))
	assert.Equal(t, int(molterrors.FileNotFound), molterrors.ExitCode(true, molterrors.FileNotFound))
}

func TestRunStdinNamesRule(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt")
	withCwd(t, dir)

	specs := []rules.Spec{{Name: "stdin-names"}}
	var out, errOut bytes.Buffer
	code, _ := Run([]string{"a.txt"}, specs, Options{}, bytes.NewBufferString("renamed.txt\n"), &out, &errOut)

	assert.Equal(t, uint8(0), uint8(code))
	assert.FileExists(t, filepath.Join(dir, "renamed.txt"))
}
