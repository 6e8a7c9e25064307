// Package template implements ${name} variable expansion over a string.
// The rule pipeline driver does not call it: no rule output is expanded.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Expander substitutes ${name} placeholders with values from a fixed set.
type Expander struct {
	vars map[string]string
}

// NewExpander builds an Expander over vars, matched by the exact ${name}
// keys found in a template.
func NewExpander(vars map[string]string) *Expander {
	return &Expander{vars: vars}
}

// Expand replaces every ${name} occurrence in s with its bound value.
// Returns an error naming the first unbound variable encountered, or if s
// still contains a ${...} placeholder after substitution (a variable whose
// value itself injects a literal "${").
func (e *Expander) Expand(s string) (string, error) {
	var missing string
	result := placeholderRegex.ReplaceAllStringFunc(s, func(m string) string {
		key := m[2 : len(m)-1]
		v, ok := e.vars[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("unbound variable: ${%s}", missing)
	}
	if placeholderRegex.MatchString(result) {
		return "", fmt.Errorf("unexpanded placeholder remains in result: %s", result)
	}
	return result, nil
}

// Validate reports an error if s references any variable not present in
// vars, without performing substitution.
func (e *Expander) Validate(s string) error {
	for _, m := range placeholderRegex.FindAllStringSubmatch(s, -1) {
		if _, ok := e.vars[m[1]]; !ok {
			return fmt.Errorf("unknown variable: ${%s}", m[1])
		}
	}
	return nil
}

// HasPlaceholders reports whether s contains any ${...} reference at all.
func HasPlaceholders(s string) bool {
	return strings.Contains(s, "${")
}
