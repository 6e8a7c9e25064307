package errors

import (
	"fmt"

	"github.com/xuanyiying/molt/pkg/molterrors"
)

// Diagnostic is an error carrying the molt exit-code category it belongs
// to, alongside the original path (and, where relevant, the offending new
// name) so every message the reporter emits is self-describing.
type Diagnostic struct {
	Category molterrors.Code
	OrigPath string
	NewPath  string
	cause    error
}

// NewDiagnostic builds a category-tagged error naming the original path and,
// when non-empty, the offending new name.
func NewDiagnostic(category molterrors.Code, origPath, newPath string, cause error) *Diagnostic {
	return &Diagnostic{Category: category, OrigPath: origPath, NewPath: newPath, cause: cause}
}

func (d *Diagnostic) Error() string {
	if d.NewPath != "" {
		return fmt.Sprintf("%s -> %s: %s", d.OrigPath, d.NewPath, d.cause)
	}
	return fmt.Sprintf("%s: %s", d.OrigPath, d.cause)
}

func (d *Diagnostic) Unwrap() error {
	return d.cause
}
