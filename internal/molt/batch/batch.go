// Package batch wires together C1-C7 into the single end-to-end pipeline
// every front-end (the run/plan/watch cobra commands in cmd/molt) drives:
// collect inputs, run the configured rule pipeline, plan, execute unless
// dry-run/only-rules, and report. Kept separate from cmd/molt so it can be
// exercised directly by tests without going through cobra.
package batch

import (
	"io"
	"os"

	"github.com/xuanyiying/molt/internal/molt/action"
	"github.com/xuanyiying/molt/internal/molt/executor"
	"github.com/xuanyiying/molt/internal/molt/input"
	"github.com/xuanyiying/molt/internal/molt/planner"
	"github.com/xuanyiying/molt/internal/molt/report"
	"github.com/xuanyiying/molt/internal/molt/rules"
	"github.com/xuanyiying/molt/internal/molt/telemetry"
	moltpkgerrors "github.com/xuanyiying/molt/pkg/errors"
	"github.com/xuanyiying/molt/pkg/fsprobe"
	"github.com/xuanyiying/molt/pkg/molterrors"
)

// Options mirrors the planner-visible options table in spec.md §6. It is
// deliberately a plain struct independent of internal/molt/config, so
// callers that build a pipeline without a config file (tests, embedders)
// do not need to depend on viper.
type Options struct {
	ContinueOnError bool
	DryRun          bool
	OnlyRules       bool
	ProcessFullname bool
	AllowPath       bool
	OutputFullname  bool
	OutputMode      string
	Verbose         bool
}

// Normalize applies the cross-option implications spec.md §6 documents:
// process-fullname and allow-path both imply output-fullname; only-rules
// implies dry-run.
func (o Options) Normalize() Options {
	if o.ProcessFullname || o.AllowPath {
		o.OutputFullname = true
	}
	if o.OnlyRules {
		o.DryRun = true
	}
	return o
}

// Run drives one full batch through the pipeline. It returns the
// accumulated molterrors.Code union of every diagnostic's category, and
// whether any diagnostic was emitted at all — callers should resolve
// their process exit code through molterrors.ExitCode(hadErrors, code)
// rather than exiting on code directly, so a diagnostic whose category
// union happens to come out zero still fails the run instead of silently
// reporting success.
func Run(paths []string, specs []rules.Spec, opts Options, stdin io.Reader, out, errOut io.Writer) (code molterrors.Code, hadErrors bool) {
	opts = opts.Normalize()

	rawPaths, err := input.Collect(paths, stdin)
	if err != nil {
		writeLine(errOut, moltpkgerrors.WrapError(err, "collecting input paths"))
		return code | molterrors.Syntax, true
	}

	okPaths, notFound := input.Verify(rawPaths, fsprobe.Exists)
	mode := opts.OutputMode
	if mode == "" {
		mode = "standard"
	}
	rpt := report.New(out, errOut, report.Mode(mode))
	if !opts.OutputFullname {
		rpt.Shorten = cwdRelativeShortener()
	}
	for _, diag := range notFound {
		code |= molterrors.FileNotFound
		hadErrors = true
		writeLine(errOut, diag)
	}

	driver, err := newDriver(specs, stdin)
	if err != nil {
		writeLine(errOut, err)
		return code | molterrors.Syntax, true
	}
	defer driver.Close()

	cwd, _ := os.Getwd()
	table := action.NewTable()
	driverOpts := rules.Options{ProcessFullname: opts.ProcessFullname, AllowPath: opts.AllowPath}

	ruleFailed := false
	for _, p := range okPaths {
		a := table.Add(cwd, p)
		if err := driver.Apply(a, driverOpts); err != nil {
			category := categoryOf(err)
			code |= category
			hadErrors = true
			writeLine(errOut, err)
			if category.Has(molterrors.RuleFailed) {
				ruleFailed = true
			}
		}
	}

	// A failed rule run stops the batch before planning unless
	// --continue-on-error is set.
	if ruleFailed && !opts.ContinueOnError {
		return code, hadErrors
	}

	if opts.OnlyRules {
		for _, a := range table.Ordered() {
			if a.HasProposedRename() {
				rpt.Line(a)
			}
		}
		return code, hadErrors
	}

	reservations := action.NewReservations()
	eng := planner.NewEngine(table, reservations)
	if opts.Verbose {
		eng.Trace = telemetry.New(errOut, true).Trace
	}
	eng.PlanAll()

	ex := executor.New(table, eng.Counters, executor.Options{ContinueOnError: opts.ContinueOnError, DryRun: opts.DryRun})
	outcomes, execCode := ex.Run()
	code |= execCode

	renamed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			hadErrors = true
			rpt.Diagnostic(o.Action, o.Err)
			continue
		}
		rpt.Line(o.Action)
		if o.Action.State.Has(action.ToRename) {
			renamed++
		}
	}
	rpt.Summary(renamed, eng.Counters.NbConflicts, eng.Counters.NbTwoSteps)

	return code, hadErrors
}

func newDriver(specs []rules.Spec, stdin io.Reader) (*rules.Driver, error) {
	reg := rules.NewRegistry()
	for _, s := range specs {
		if s.Name == "stdin-names" {
			rules.RegisterStdinNames(reg, stdin)
			break
		}
	}
	return rules.NewDriver(reg, specs)
}

func categoryOf(err error) molterrors.Code {
	if diag, ok := err.(*moltpkgerrors.Diagnostic); ok {
		return diag.Category
	}
	return molterrors.RuleFailed
}

func writeLine(w io.Writer, err error) {
	io.WriteString(w, err.Error()+"\n")
}

// cwdRelativeShortener trims the current working directory prefix off a
// canonical path for display, the default when OutputFullname is unset.
func cwdRelativeShortener() func(string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return func(s string) string { return s }
	}
	prefix := cwd
	if prefix != "/" {
		prefix += "/"
	}
	return func(s string) string {
		if len(s) > len(prefix) && s[:len(prefix)] == prefix {
			return s[len(prefix):]
		}
		return s
	}
}
