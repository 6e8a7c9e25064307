package rules

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// caseRule folds a name to "upper", "lower" or "title" case.
type caseRule struct{}

func (caseRule) Init(params []string) (State, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("case: expected exactly one parameter (upper|lower|title), got %d", len(params))
	}
	switch params[0] {
	case "upper", "lower", "title":
		return params[0], nil
	default:
		return nil, fmt.Errorf("case: unknown mode %q", params[0])
	}
}

func (caseRule) Run(state State, old string) (string, bool, error) {
	var newName string
	switch state.(string) {
	case "upper":
		newName = strings.ToUpper(old)
	case "lower":
		newName = strings.ToLower(old)
	case "title":
		newName = titleCase(old)
	}
	return newName, newName != old, nil
}

func (caseRule) Destroy(State) {}

func titleCase(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '_' || r == '-' })
	if len(fields) == 0 {
		return s
	}
	var b strings.Builder
	rest := s
	for _, f := range fields {
		idx := strings.Index(rest, f)
		b.WriteString(rest[:idx])
		if f != "" {
			b.WriteString(strings.ToUpper(f[:1]))
			b.WriteString(strings.ToLower(f[1:]))
		}
		rest = rest[idx+len(f):]
	}
	b.WriteString(rest)
	return b.String()
}

// replaceRule substitutes pattern with replacement, literally by default
// or with regexp.ReplaceAllString when params[2] == "regex".
type replaceRule struct{}

type replaceState struct {
	re          *regexp.Regexp
	pattern     string
	replacement string
}

func (replaceRule) Init(params []string) (State, error) {
	if len(params) < 2 || len(params) > 3 {
		return nil, fmt.Errorf("replace: expected pattern, replacement, and optional mode, got %d params", len(params))
	}
	st := &replaceState{pattern: params[0], replacement: params[1]}
	if len(params) == 3 {
		switch params[2] {
		case "regex":
			re, err := regexp.Compile(params[0])
			if err != nil {
				return nil, fmt.Errorf("replace: invalid regex %q: %w", params[0], err)
			}
			st.re = re
		case "literal":
		default:
			return nil, fmt.Errorf("replace: unknown mode %q", params[2])
		}
	}
	return st, nil
}

func (replaceRule) Run(state State, old string) (string, bool, error) {
	st := state.(*replaceState)
	var newName string
	if st.re != nil {
		newName = st.re.ReplaceAllString(old, st.replacement)
	} else {
		newName = strings.ReplaceAll(old, st.pattern, st.replacement)
	}
	return newName, newName != old, nil
}

func (replaceRule) Destroy(State) {}

// removeRule strips every match of a regular expression from the name.
type removeRule struct{}

func (removeRule) Init(params []string) (State, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("remove: expected exactly one pattern parameter, got %d", len(params))
	}
	re, err := regexp.Compile(params[0])
	if err != nil {
		return nil, fmt.Errorf("remove: invalid regex %q: %w", params[0], err)
	}
	return re, nil
}

func (removeRule) Run(state State, old string) (string, bool, error) {
	re := state.(*regexp.Regexp)
	newName := re.ReplaceAllString(old, "")
	return newName, newName != old, nil
}

func (removeRule) Destroy(State) {}

// numberRule replaces one occurrence of a token (default "#") with a
// sequential counter formatted per a printf-style verb, shared across the
// whole batch — the counter lives in the state and advances on every
// match, not once per call.
type numberRule struct{}

type numberState struct {
	format string
	token  string
	n      int
}

func (numberRule) Init(params []string) (State, error) {
	if len(params) == 0 || len(params) > 3 {
		return nil, fmt.Errorf("number: expected format and optional token/start, got %d params", len(params))
	}
	st := &numberState{format: params[0], token: "#"}
	if len(params) >= 2 && params[1] != "" {
		st.token = params[1]
	}
	if len(params) == 3 {
		var start int
		if _, err := fmt.Sscanf(params[2], "%d", &start); err != nil {
			return nil, fmt.Errorf("number: invalid start value %q: %w", params[2], err)
		}
		st.n = start - 1
	}
	if rendered := fmt.Sprintf(st.format, 1); strings.Contains(rendered, "%!") {
		return nil, fmt.Errorf("number: invalid format verb %q", st.format)
	}
	return st, nil
}

func (numberRule) Run(state State, old string) (string, bool, error) {
	st := state.(*numberState)
	if !strings.Contains(old, st.token) {
		return old, false, nil
	}
	st.n++
	newName := strings.Replace(old, st.token, fmt.Sprintf(st.format, st.n), 1)
	return newName, true, nil
}

func (numberRule) Destroy(State) {}

// stdinNamesRule consumes one replacement name per call from a bound
// reader, in input order — the original tool's "read names from stdin"
// rule, generalized here to any io.Reader so tests never touch the real
// stdin.
type stdinNamesRule struct {
	scanner *bufio.Scanner
}

// NewStdinNamesRule builds the stdin-names rule bound to src. Registered
// into a Registry by name via RegisterStdinNames, not NewRegistry, since
// it needs a live input source rather than pure parameters.
func NewStdinNamesRule(src io.Reader) Rule {
	return &stdinNamesRule{scanner: bufio.NewScanner(src)}
}

// RegisterStdinNames adds the "stdin-names" rule to reg, bound to src.
func RegisterStdinNames(reg *Registry, src io.Reader) {
	reg.Register("stdin-names", func() Rule { return NewStdinNamesRule(src) })
}

func (r *stdinNamesRule) Init(params []string) (State, error) {
	if len(params) != 0 {
		return nil, fmt.Errorf("stdin-names: takes no parameters, got %d", len(params))
	}
	return nil, nil
}

func (r *stdinNamesRule) Run(state State, old string) (string, bool, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("stdin-names: %w", err)
		}
		return "", false, fmt.Errorf("stdin-names: ran out of replacement names")
	}
	return r.scanner.Text(), true, nil
}

func (r *stdinNamesRule) Destroy(State) {}
