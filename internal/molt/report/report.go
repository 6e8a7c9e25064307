// Package report implements the reporter (C7): one line per action in
// sequence order, plus a separate diagnostics stream, color-coded the way
// the teacher's console output is.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuanyiying/molt/internal/molt/action"
)

// Mode selects what a successfully renamed action's line contains.
type Mode string

const (
	Standard  Mode = "standard"
	NewNames  Mode = "new-names"
	BothNames Mode = "both-names"
)

// styler applies ANSI color codes when enabled, adapted from the
// teacher's Styler down to the three colors the reporter actually needs.
type styler struct {
	enabled bool
}

func newStyler(enabled bool) *styler { return &styler{enabled: enabled} }

func (s *styler) color(code, text string) string {
	if !s.enabled {
		return text
	}
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, text)
}

func (s *styler) red(text string) string    { return s.color("31", text) }
func (s *styler) yellow(text string) string { return s.color("33", text) }
func (s *styler) dim(text string) string    { return s.color("2", text) }

// Reporter prints action outcomes and diagnostics to separate streams.
type Reporter struct {
	Out    io.Writer
	Err    io.Writer
	Mode   Mode
	styler *styler

	// Shorten transforms a canonical path before display; identity by
	// default. batch.Run binds this to a cwd-relative trim unless
	// --output-fullname is set.
	Shorten func(string) string
}

// New builds a Reporter writing to out/errOut, detecting color support
// from out the way the teacher's Console does (a real terminal, TERM not
// "dumb", NO_COLOR unset).
func New(out, errOut io.Writer, mode Mode) *Reporter {
	return &Reporter{
		Out: out, Err: errOut, Mode: mode,
		styler:  newStyler(detectColor(out)),
		Shorten: func(s string) string { return s },
	}
}

func detectColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// Line renders one action's outcome per r.Mode: "standard" prints
// "orig -> new", "new-names" prints just the new name, "both-names"
// prints "orig\tnew". A no-op action (no proposed rename) is skipped.
func (r *Reporter) Line(a *action.Action) {
	if !a.HasProposedRename() {
		return
	}
	orig, newName := r.shorten(a.OrigFull), r.shorten(a.NewFull)
	switch r.Mode {
	case NewNames:
		fmt.Fprintln(r.Out, newName)
	case BothNames:
		fmt.Fprintf(r.Out, "%s\t%s\n", orig, newName)
	default:
		fmt.Fprintf(r.Out, "%s -> %s\n", orig, newName)
	}
}

func (r *Reporter) shorten(s string) string {
	if r.Shorten == nil {
		return s
	}
	return r.Shorten(s)
}

// Diagnostic prints one error line to r.Err, colored by its category:
// red for a hard conflict, yellow for an extrinsic filesystem conflict,
// dimmed for anything else (rule failures, rename failures).
func (r *Reporter) Diagnostic(a *action.Action, err error) {
	msg := fmt.Sprintf("%s: %s", r.shorten(a.OrigFull), err)
	switch {
	case a.State.Has(action.Conflict):
		fmt.Fprintln(r.Err, r.styler.red(msg))
	case a.State.Has(action.ConflictFS):
		fmt.Fprintln(r.Err, r.styler.yellow(msg))
	default:
		fmt.Fprintln(r.Err, r.styler.dim(msg))
	}
}

// Summary prints the trailing counters line the teacher's Console.Box
// pattern inspired, collapsed to a single line since the reporter is a
// stream, not a TUI.
func (r *Reporter) Summary(renamed, conflicts, twoSteps int) {
	parts := []string{fmt.Sprintf("%d renamed", renamed)}
	if conflicts > 0 {
		parts = append(parts, fmt.Sprintf("%d conflicts", conflicts))
	}
	if twoSteps > 0 {
		parts = append(parts, fmt.Sprintf("%d staged", twoSteps))
	}
	fmt.Fprintln(r.Out, strings.Join(parts, ", "))
}
