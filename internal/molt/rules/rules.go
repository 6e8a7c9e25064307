// Package rules implements the rule pipeline driver (C6): an ordered
// sequence of name transforms applied to each action's basename (or full
// path, under ProcessFullname), producing the candidate the planner later
// classifies.
//
// Rules register into a Registry by name, the way the original tool's
// plugins registered themselves, rather than being hardcoded into the
// driver.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuanyiying/molt/internal/molt/action"
	moltpkgerrors "github.com/xuanyiying/molt/pkg/errors"
	"github.com/xuanyiying/molt/pkg/molterrors"
)

// State is a rule's private, opaque state, returned by Init and threaded
// back through every Run/Destroy call for that configured instance.
type State interface{}

// Rule is the transform contract every pipeline step implements.
type Rule interface {
	// Init validates params and builds the rule's private state.
	Init(params []string) (State, error)
	// Run transforms old into a candidate name. ok is false when the rule
	// declines to change old (e.g. a pattern that did not match); err is
	// fatal to the whole run unless continue-on-error is set (see
	// batch.Run).
	Run(state State, old string) (newName string, ok bool, err error)
	// Destroy releases any resource Init acquired. None of the built-in
	// rules acquire one, so their Destroy is a no-op.
	Destroy(state State)
}

// Factory builds a fresh Rule instance; Registry holds one per name so a
// rule used twice in the same pipeline gets independent state.
type Factory func() Rule

// Registry maps rule names to factories. The built-in rules are
// pre-registered by NewRegistry; callers add more with Register.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds a Registry with every built-in rule registered:
// case, replace, remove, number. stdin-names is registered separately via
// RegisterStdinNames since it needs an input source bound at call time.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("case", func() Rule { return &caseRule{} })
	r.Register("replace", func() Rule { return &replaceRule{} })
	r.Register("remove", func() Rule { return &removeRule{} })
	r.Register("number", func() Rule { return &numberRule{} })
	return r
}

// Register adds or overrides a named rule factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Lookup returns the factory registered under name, if any.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Spec configures one pipeline step: a registered rule name plus its
// Init parameters, as read from the rule-pipeline config file.
type Spec struct {
	Name   string
	Params []string
}

type configuredRule struct {
	name  string
	rule  Rule
	state State
}

// Options carries the planner-visible knobs that affect how the driver
// turns a rule pipeline's output into a proposed destination.
type Options struct {
	// ProcessFullname feeds the rule pipeline the action's full canonical
	// path instead of just its basename, and treats the result as a full
	// path rather than a basename to rejoin with the original directory.
	ProcessFullname bool
	// AllowPath permits a candidate name to contain a path separator
	// instead of rejecting it as invalid.
	AllowPath bool
}

// Driver runs a configured rule pipeline over one action at a time.
type Driver struct {
	rules []configuredRule
}

// NewDriver builds a Driver from specs, instantiating and Init-ing one
// Rule per step via reg. Every spec is validated before NewDriver gives up
// on any of them, so a pipeline config naming three bad rules is reported
// in one pass instead of making the caller fix and re-run three times; the
// accumulated failures are folded into one error with
// moltpkgerrors.CombineErrors. Rejects an unknown rule name, any Init
// failure, and more than one stdin-names step in the same pipeline
// (spec.md §6: at most one such rule per run).
func NewDriver(reg *Registry, specs []Spec) (*Driver, error) {
	d := &Driver{rules: make([]configuredRule, 0, len(specs))}
	var errs []error
	stdinCount := 0
	for _, spec := range specs {
		factory, ok := reg.Lookup(spec.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("rules: unknown rule %q", spec.Name))
			continue
		}
		rule := factory()
		state, err := rule.Init(spec.Params)
		if err != nil {
			errs = append(errs, fmt.Errorf("rules: init %q: %w", spec.Name, err))
			continue
		}
		if spec.Name == "stdin-names" {
			stdinCount++
		}
		d.rules = append(d.rules, configuredRule{name: spec.Name, rule: rule, state: state})
	}
	if stdinCount > 1 {
		errs = append(errs, fmt.Errorf("rules: at most one stdin-names rule is allowed per run, found %d", stdinCount))
	}
	if err := moltpkgerrors.CombineErrors(errs); err != nil {
		return nil, err
	}
	return d, nil
}

// Close destroys every configured rule's state.
func (d *Driver) Close() {
	for _, cr := range d.rules {
		cr.rule.Destroy(cr.state)
	}
}

// Apply runs the configured pipeline over a, in order, and — if the
// pipeline produced a changed, valid candidate — sets a.NewFull/NewBase.
// Returns a category-tagged diagnostic on rule failure or an invalid
// candidate; a is left untouched (no proposed rename) in that case.
func (d *Driver) Apply(a *action.Action, opts Options) error {
	input := a.OrigBase
	if opts.ProcessFullname {
		input = a.OrigFull
	}

	name := input
	for _, cr := range d.rules {
		out, ok, err := cr.rule.Run(cr.state, name)
		if err != nil {
			return moltpkgerrors.NewDiagnostic(molterrors.RuleFailed, a.OrigFull, "",
				fmt.Errorf("rule %q: %w", cr.name, err))
		}
		if ok {
			name = out
		}
	}

	if name == input {
		return nil
	}
	if name == "" {
		return moltpkgerrors.NewDiagnostic(molterrors.InvalidName, a.OrigFull, "",
			errors.New("candidate name is empty"))
	}
	if !opts.AllowPath && strings.ContainsRune(name, '/') {
		return moltpkgerrors.NewDiagnostic(molterrors.InvalidName, a.OrigFull, name,
			errors.New("candidate name contains a path separator"))
	}

	full, baseIdx := resolveFull(a, name, opts)
	a.NewFull = full
	a.NewBase = full[baseIdx:]
	return nil
}

func resolveFull(a *action.Action, name string, opts Options) (full string, baseIdx int) {
	if opts.ProcessFullname {
		idx := strings.LastIndex(name, "/")
		return name, idx + 1
	}
	dir := a.OrigFull[:len(a.OrigFull)-len(a.OrigBase)]
	full = dir + name
	return full, len(dir)
}
