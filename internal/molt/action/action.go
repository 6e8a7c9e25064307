// Package action holds the per-input work item the planner and executor
// operate on, plus the two tables (keyed by canonical path, never by
// direct pointers between actions) that the planner uses to look up
// cross-action dependencies: the action table and the reservation table.
package action

import "github.com/xuanyiying/molt/internal/molt/pathkey"

// State is a bitset of the classifications an Action can carry
// simultaneously. The zero value means "no-op": either there is no
// proposed new name, or the proposed name equals the original.
type State uint8

const (
	// ToRename marks an action committed to a one-step (or staged
	// two-step) rename.
	ToRename State = 1 << iota
	// TwoSteps marks an action that must stage through a temporary name
	// before its destination is free. Implies ToRename.
	TwoSteps
	// Conflict marks a hard intra-batch clash: two inputs propose the
	// same destination. Terminal — no action ever leaves Conflict.
	Conflict
	// ConflictFS marks a destination blocked by something outside the
	// batch (or by another blocked action) that may yet resolve.
	ConflictFS
)

// Has reports whether every bit in want is set.
func (s State) Has(want State) bool {
	return s&want == want
}

// Any reports whether any bit in want is set.
func (s State) Any(want State) bool {
	return s&want != 0
}

func (s State) String() string {
	if s == 0 {
		return "no-op"
	}
	var out string
	add := func(bit State, name string) {
		if s.Any(bit) {
			if out != "" {
				out += "|"
			}
			out += name
		}
	}
	add(ToRename, "TO_RENAME")
	add(TwoSteps, "TWO_STEPS")
	add(Conflict, "CONFLICT")
	add(ConflictFS, "CONFLICT_FS")
	return out
}

// Action is the unit of intended work for a single input file.
type Action struct {
	// Seq is the monotone, 1-based sequence number assigned at ingest.
	// It determines execution order and the earlier-wins tie-break rule.
	Seq int

	OrigFull string
	OrigBase string

	// NewFull is the canonical proposed destination. Empty means the
	// action has no proposed rename (a no-op from ingestion, e.g. the
	// rule pipeline produced no change or an invalid candidate).
	NewFull string
	NewBase string

	// TmpFull is populated only once a TwoSteps action is actually
	// staged by the executor.
	TmpFull string

	State State

	// DeferredErr holds a diagnostic produced during planning or pass 1
	// execution whose emission must wait for pass 2 so output stays in
	// sequence order when two-step renames are in play.
	DeferredErr error
}

// HasProposedRename reports whether a has a candidate destination distinct
// from its original — the precondition for ever calling Plan on it.
func (a *Action) HasProposedRename() bool {
	return a.NewFull != "" && a.NewFull != a.OrigFull
}

// Table is the action table (C2): the canonical-original-path-keyed
// collection of every action in the batch, plus the stable sequence order
// inputs were ingested in.
type Table struct {
	byOrig  map[string]*Action
	ordered []*Action
}

// NewTable creates an empty action table.
func NewTable() *Table {
	return &Table{byOrig: make(map[string]*Action)}
}

// Add ingests one input, canonicalising it and assigning the next sequence
// number. The action is returned so the caller (the rule pipeline driver)
// can attach a proposed new name before planning it.
func (t *Table) Add(cwd, input string) *Action {
	full, baseIdx := pathkey.Canonicalize(cwd, input)
	a := &Action{
		Seq:      len(t.ordered) + 1,
		OrigFull: full,
		OrigBase: full[baseIdx:],
	}
	t.byOrig[full] = a
	t.ordered = append(t.ordered, a)
	return a
}

// Lookup returns the action whose original path equals full, if any — this
// is the "owner" lookup in planner Operation A step 2.
func (t *Table) Lookup(full string) (*Action, bool) {
	a, ok := t.byOrig[full]
	return a, ok
}

// Ordered returns every action in ingest (sequence) order.
func (t *Table) Ordered() []*Action {
	return t.ordered
}

// Reservations is the new-name reservation table (C3): at most one action
// may reserve a given proposed destination path at a time.
type Reservations struct {
	byTarget map[string]*Action
}

// NewReservations creates an empty reservation table.
func NewReservations() *Reservations {
	return &Reservations{byTarget: make(map[string]*Action)}
}

// Owner returns the action currently reserving target, if any.
func (r *Reservations) Owner(target string) (*Action, bool) {
	a, ok := r.byTarget[target]
	return a, ok
}

// Reserve claims target for a. Any previous reservation on that exact
// target is silently replaced — callers are responsible for only reserving
// a target once it is known to be uncontested (the planner's reservation
// check happens before this is called).
func (r *Reservations) Reserve(target string, a *Action) {
	r.byTarget[target] = a
}

// Release clears target's reservation iff it is currently held by a. This
// no-ops if some other action already took over the reservation, which
// matters when a downgraded action's old target was already reclaimed.
func (r *Reservations) Release(target string, a *Action) {
	if cur, ok := r.byTarget[target]; ok && cur == a {
		delete(r.byTarget, target)
	}
}

// Counters tracks the two global counts the planner maintains and the
// executor gates on.
type Counters struct {
	NbConflicts int
	NbTwoSteps  int
}
