// Package planner implements the classifier/planner (C4): the core
// conflict-resolution algorithm of the engine. Given an action carrying a
// proposed new name, Plan assigns it a final state and may cascade changes
// into other actions through the reservation table, exactly as described
// in Operations A (plan), B (tryResolveFS), C (orphan) and D
// (demoteToConflictFS).
package planner

import (
	"github.com/xuanyiying/molt/internal/molt/action"
	"github.com/xuanyiying/molt/pkg/fsprobe"
)

// Engine holds the mutable state a batch's planning pass operates on: the
// action table, the reservation table, the global counters, and the
// existence probe. It carries no direct pointers between actions — every
// cross-action lookup goes through Table or Reservations, keyed by
// canonical path, per the design note against borrow-style coupling.
type Engine struct {
	Table        *action.Table
	Reservations *action.Reservations
	Counters     action.Counters

	// Exists is the C6-external existence probe; defaults to fsprobe.Exists
	// but is overridable so planner tests can run without touching a real
	// filesystem.
	Exists func(path string) bool

	// Trace is called at every cascade step (orphan, tryResolveFS,
	// promotion to CONFLICT) with a human-readable message; defaults to a
	// no-op. internal/molt/telemetry binds this to a logrus debug entry
	// under --verbose.
	Trace func(format string, args ...interface{})
}

// NewEngine builds an Engine over table and reservations, sharing zeroed
// counters and the real filesystem existence probe.
func NewEngine(table *action.Table, reservations *action.Reservations) *Engine {
	return &Engine{
		Table:        table,
		Reservations: reservations,
		Exists:       fsprobe.Exists,
		Trace:        func(string, ...interface{}) {},
	}
}

func (e *Engine) trace(format string, args ...interface{}) {
	if e.Trace != nil {
		e.Trace(format, args...)
	}
}

// PlanAll classifies every action in the table that has a proposed rename,
// in sequence order. An action already classified by an earlier action's
// cascade (a cross-reference resolved before its own turn came up) is
// skipped here, since Plan itself does not check an action's existing
// state before classifying it again.
func (e *Engine) PlanAll() {
	for _, a := range e.Table.Ordered() {
		if a.State == 0 && a.HasProposedRename() {
			e.Plan(a)
		}
	}
}

// Plan is Operation A: classify a as to-rename if possible, cascading into
// dependent actions as needed. Actions are expected to be planned in
// sequence order (PlanAll's order); an owner that has not had its own turn
// yet is, at this point, indistinguishable from one that never will —
// apparent mistakes this causes are corrected later by step 5's downstream
// unblocking once the true owner is classified.
func (e *Engine) Plan(a *action.Action) {
	// Step 1: reservation check.
	if e.reservationCheck(a) {
		return
	}

	// Step 2+3: owner lookup and case distinctions.
	owner, hasOwner := e.Table.Lookup(a.NewFull)
	var ownerWillMove bool

	switch {
	case !hasOwner:
		// The destination is not an input; only the filesystem can block it.
		if e.Exists(a.NewFull) {
			e.setConflictFS(a)
			return
		}
	case owner == a:
		// Identity: a's own original name, no cross-effect.
	case owner.State.Has(action.ToRename):
		ownerWillMove = true
	case owner.State.Has(action.ConflictFS):
		if e.tryResolveFS(owner, a) && owner.State.Has(action.ToRename) {
			ownerWillMove = true
		} else {
			e.setConflictFS(a)
			return
		}
	default:
		// owner is CONFLICT, has no new name, new name == old, or simply
		// has not been planned yet.
		e.setConflictFS(a)
		return
	}

	if ownerWillMove {
		e.commit(a, owner)
	} else {
		e.commit(a, nil)
	}
}

// commit is Operation A step 4: reserve a's destination and mark it
// TO_RENAME, staging through TWO_STEPS when owner (the action, if any,
// identified in step 3 as about to vacate a's destination) executes after
// a in sequence order. It then runs step 5, the downstream unblocking of
// whatever was waiting — pessimistically — on a's own original name.
func (e *Engine) commit(a *action.Action, owner *action.Action) {
	e.Reservations.Reserve(a.NewFull, a)
	if a.State.Has(action.ConflictFS) {
		a.State &^= action.ConflictFS
		e.Counters.NbConflicts--
	}
	a.State |= action.ToRename
	if owner != nil && owner.Seq > a.Seq {
		a.State |= action.TwoSteps
		e.Counters.NbTwoSteps++
	}

	if blocked, ok := e.Reservations.Owner(a.OrigFull); ok && blocked.State.Has(action.ConflictFS) {
		blocked.State &^= action.ConflictFS
		e.Counters.NbConflicts--
		e.Plan(blocked)
	}
}

// reservationCheck is Operation A step 1, factored out so Operation D can
// reuse it verbatim. Returns true if a was resolved as a new CONFLICT by
// this check (the caller should stop processing a).
func (e *Engine) reservationCheck(a *action.Action) bool {
	target := a.NewFull
	owner, ok := e.Reservations.Owner(target)
	if !ok || owner == a {
		return false
	}
	e.markConflict(a)
	if !owner.State.Has(action.Conflict) {
		e.promoteToConflict(owner, target)
	}
	return true
}

func (e *Engine) markConflict(a *action.Action) {
	a.State |= action.Conflict
	e.Counters.NbConflicts++
}

// promoteToConflict demotes b from whatever it held (TO_RENAME or
// CONFLICT_FS) to CONFLICT because some other action just contested its
// reservation. b's old reservation is released since its state has been
// downgraded; if b was holding the reservation because it expected to
// vacate its own original name, that expectation is now dead, so
// Operation C runs for it.
func (e *Engine) promoteToConflict(b *action.Action, target string) {
	hadToRename := b.State.Has(action.ToRename)
	hadTwoSteps := b.State.Has(action.TwoSteps)
	hadConflictFS := b.State.Has(action.ConflictFS)

	if hadTwoSteps {
		e.Counters.NbTwoSteps--
	}
	b.State &^= action.ToRename | action.TwoSteps | action.ConflictFS
	e.Reservations.Release(target, b)

	// CONFLICT_FS was already counted in NbConflicts; TO_RENAME was not.
	if hadToRename && !hadConflictFS {
		e.Counters.NbConflicts++
	}
	b.State |= action.Conflict
	e.trace("promote-to-conflict: %s contested by another claim on %s", b.OrigBase, target)

	if hadToRename || hadConflictFS {
		e.orphan(b)
	}
}

// setConflictFS marks a blocked (by the filesystem, or by a blocked owner)
// and runs Operation C on it, since a will not be freeing its own original
// name either.
func (e *Engine) setConflictFS(a *action.Action) {
	a.State |= action.ConflictFS
	e.Counters.NbConflicts++
	e.Reservations.Reserve(a.NewFull, a)
	e.orphan(a)
}

// orphan is Operation C: a will no longer free a.OrigFull, so whatever
// other action was banking on that vacancy needs to be walked back.
func (e *Engine) orphan(a *action.Action) {
	b, ok := e.Reservations.Owner(a.OrigFull)
	if !ok || b.State.Has(action.Conflict) {
		return
	}
	e.trace("orphan: %s no longer frees %s, demoting %s", a.OrigBase, a.OrigFull, b.OrigBase)
	hadTwoSteps := b.State.Has(action.TwoSteps)
	b.State &^= action.ToRename | action.TwoSteps
	if hadTwoSteps {
		e.Counters.NbTwoSteps--
	}
	e.demoteToConflictFS(b)
}

// demoteToConflictFS is Operation D. It reuses the reservation check so a
// demotion can itself cascade into a fresh CONFLICT if another action has
// since taken over a's target.
func (e *Engine) demoteToConflictFS(a *action.Action) {
	if e.reservationCheck(a) {
		return
	}
	if a.State.Has(action.ConflictFS) {
		// Already accounted for; nothing changed.
		return
	}
	a.State |= action.ConflictFS
	e.Counters.NbConflicts++
	e.Reservations.Reserve(a.NewFull, a)
	e.orphan(a)
}

// tryResolveFS is Operation B: an attempt to resolve blocked's CONFLICT_FS
// because pending is about to claim pending.NewFull, which may cascade
// into freeing the exact path blocked is waiting on. It commits blocked
// directly rather than re-entering Plan, since by construction the owner
// freeing blocked's destination is already known here — re-deriving it
// generically would re-examine pending's own not-yet-committed state and
// misclassify the very cycle this operation exists to break.
func (e *Engine) tryResolveFS(blocked, pending *action.Action) bool {
	e.trace("try-resolve-fs: %s blocked on %s, probing chain from %s", blocked.OrigBase, blocked.NewFull, pending.OrigBase)
	if blocked.NewFull == pending.OrigFull {
		e.commit(blocked, pending)
		return blocked.State.Has(action.ToRename)
	}

	owner, ok := e.Table.Lookup(blocked.NewFull)
	if !ok {
		return false
	}
	switch {
	case owner.State.Has(action.ToRename):
		e.commit(blocked, owner)
		return blocked.State.Has(action.ToRename)
	case owner.State.Has(action.ConflictFS):
		if e.tryResolveFS(owner, pending) && owner.State.Has(action.ToRename) {
			e.commit(blocked, owner)
			return blocked.State.Has(action.ToRename)
		}
		return false
	default:
		return false
	}
}
