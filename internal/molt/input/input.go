// Package input enumerates the batch's input paths. Per spec.md §1
// ("no recursive directory traversal: inputs are enumerated by the
// caller"), this package never walks a directory tree — it only resolves
// where the literal list of inputs comes from: CLI arguments, or one path
// per line on stdin when the caller passes "-".
package input

import (
	"bufio"
	"io"
	"strings"

	moltpkgerrors "github.com/xuanyiying/molt/pkg/errors"
	"github.com/xuanyiying/molt/pkg/molterrors"
)

// Collect resolves the input path list: args verbatim, unless args is
// exactly ["-"], in which case it reads one path per line from stdin,
// skipping blank lines.
func Collect(args []string, stdin io.Reader) ([]string, error) {
	if len(args) == 1 && args[0] == "-" {
		return fromReader(stdin)
	}
	return args, nil
}

func fromReader(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Verify splits paths into those that exist (per exists, normally
// pkg/fsprobe.Exists) and a FileNotFound diagnostic for each that does
// not, so a missing input is reported the same way any other diagnostic
// is rather than aborting the whole run.
func Verify(paths []string, exists func(string) bool) (ok []string, diags []error) {
	for _, p := range paths {
		if exists(p) {
			ok = append(ok, p)
			continue
		}
		diags = append(diags, moltpkgerrors.NewDiagnostic(molterrors.FileNotFound, p, "", errFileNotFound{p}))
	}
	return ok, diags
}

type errFileNotFound struct{ path string }

func (e errFileNotFound) Error() string { return "no such file or directory" }
