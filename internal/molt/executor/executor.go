// Package executor implements the two-pass execution stage (C5): turning a
// fully planned batch of actions into actual renames on disk, staging
// two-step renames through temporary names, and collecting diagnostics in
// sequence order.
package executor

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/xuanyiying/molt/internal/molt/action"
	molterrors "github.com/xuanyiying/molt/pkg/molterrors"

	moltpkgerrors "github.com/xuanyiying/molt/pkg/errors"
	"github.com/xuanyiying/molt/pkg/tempname"
)

// Options gates executor behaviour; it mirrors the planner-visible options
// table in spec.md §6 that apply to execution rather than rule evaluation.
type Options struct {
	ContinueOnError bool
	DryRun          bool
}

// Outcome is one action's final disposition, in the order Run produced it
// (sequence order), ready for the reporter to render.
type Outcome struct {
	Action *action.Action
	Err    error
}

// Rename abstracts the one syscall the executor performs, so tests can
// substitute a fake filesystem without touching a real one.
type Rename func(oldpath, newpath string) error

// Executor runs the two passes described in spec.md §4.3 over a planned
// batch.
type Executor struct {
	Table    *action.Table
	Counters action.Counters
	Options  Options
	Rename   Rename

	// RunID is a per-run identifier generated by New. Run does not attach
	// it to the diagnostics it produces, and no CLI flag prints it.
	RunID string
}

// New builds an Executor backed by the real os.Rename syscall, tagged
// with a fresh run identifier.
func New(table *action.Table, counters action.Counters, opts Options) *Executor {
	return &Executor{Table: table, Counters: counters, Options: opts, Rename: os.Rename, RunID: uuid.NewString()}
}

// Run performs pass 1, and pass 2 if nb_two_steps > 0, returning one
// Outcome per action with a proposed rename, in sequence order, plus the
// accumulated molterrors.Code union of every diagnostic emitted.
func (ex *Executor) Run() ([]Outcome, molterrors.Code) {
	var code molterrors.Code
	outcomes := make([]Outcome, 0, len(ex.Table.Ordered()))
	skipRenames := ex.Counters.NbConflicts > 0 && !ex.Options.ContinueOnError

	for _, a := range ex.Table.Ordered() {
		if !a.HasProposedRename() {
			continue
		}

		switch {
		case a.State.Has(action.Conflict):
			diag := moltpkgerrors.NewDiagnostic(molterrors.RenameConflict, a.OrigFull, a.NewFull,
				errors.New("intra-batch conflict with another proposed name"))
			code |= molterrors.RenameConflict
			outcomes = append(outcomes, Outcome{Action: a, Err: diag})

		case a.State.Has(action.ConflictFS):
			diag := moltpkgerrors.NewDiagnostic(molterrors.FSConflict, a.OrigFull, a.NewFull,
				errors.New("destination blocked outside the batch"))
			code |= molterrors.FSConflict
			outcomes = append(outcomes, Outcome{Action: a, Err: diag})

		case a.State.Has(action.ToRename) && a.State.Has(action.TwoSteps):
			if skipRenames || ex.Options.DryRun {
				outcomes = append(outcomes, Outcome{Action: a})
				continue
			}
			outcomes = append(outcomes, ex.stage(a, &code))

		case a.State.Has(action.ToRename):
			if skipRenames || ex.Options.DryRun {
				outcomes = append(outcomes, Outcome{Action: a})
				continue
			}
			outcomes = append(outcomes, ex.renameDirect(a, &code))
		}
	}

	if ex.Counters.NbTwoSteps > 0 && !skipRenames && !ex.Options.DryRun {
		ex.runPass2(outcomes, &code)
	}

	return outcomes, code
}

// renameDirect performs a one-step rename. On failure TO_RENAME is cleared
// so the action is never mistaken for a success, and — if the batch has
// any two-step actions at all — the diagnostic is deferred onto the action
// itself so pass 2 can flush it in sequence order alongside everything
// pass 2 resolves.
func (ex *Executor) renameDirect(a *action.Action, code *molterrors.Code) Outcome {
	if err := ex.Rename(a.OrigFull, a.NewFull); err != nil {
		a.State &^= action.ToRename
		diag := moltpkgerrors.NewDiagnostic(molterrors.RenameFailure, a.OrigFull, a.NewFull, err)
		*code |= molterrors.RenameFailure
		if ex.Counters.NbTwoSteps > 0 {
			a.DeferredErr = diag
			return Outcome{Action: a}
		}
		return Outcome{Action: a, Err: diag}
	}
	return Outcome{Action: a}
}

// stage performs a two-step rename's first leg: orig -> a fresh temp name
// in new_full's directory. The second leg runs in pass 2.
func (ex *Executor) stage(a *action.Action, code *molterrors.Code) Outcome {
	tmpFull, err := tempname.Generate(a.NewFull)
	if err != nil {
		return ex.failStage(a, code, err)
	}

	if err := ex.Rename(a.OrigFull, tmpFull); err != nil {
		return ex.failStage(a, code, err)
	}
	a.TmpFull = tmpFull
	return Outcome{Action: a}
}

func (ex *Executor) failStage(a *action.Action, code *molterrors.Code, err error) Outcome {
	a.State &^= action.ToRename
	a.TmpFull = ""
	diag := moltpkgerrors.NewDiagnostic(molterrors.RenameFailure, a.OrigFull, a.NewFull, err)
	*code |= molterrors.RenameFailure
	a.DeferredErr = diag
	return Outcome{Action: a}
}

// runPass2 finishes every staged two-step rename (tmp -> new_full) and
// flushes every deferred diagnostic, in sequence order, into outcomes.
func (ex *Executor) runPass2(outcomes []Outcome, code *molterrors.Code) {
	byAction := make(map[*action.Action]int, len(outcomes))
	for i, o := range outcomes {
		byAction[o.Action] = i
	}

	for _, a := range ex.Table.Ordered() {
		if a.TmpFull == "" || !a.State.Has(action.ToRename) {
			continue
		}
		if err := ex.Rename(a.TmpFull, a.NewFull); err != nil {
			wrapped := fmt.Errorf("%s (file is now named %s)", err.Error(), a.TmpFull)
			a.DeferredErr = moltpkgerrors.NewDiagnostic(molterrors.RenameFailure, a.OrigFull, a.NewFull, wrapped)
			a.State &^= action.ToRename
			*code |= molterrors.RenameFailure
		}
	}

	for i, o := range outcomes {
		if o.Action.DeferredErr != nil && outcomes[i].Err == nil {
			outcomes[i].Err = o.Action.DeferredErr
		}
	}
}
