// Package errors supplements pkg/molterrors' exit-code categories with the
// molt-specific mechanics every diagnostic site in the engine needs:
// wrapping a failure with the path it happened on (WrapError) and folding
// a batch operation's accumulated per-item failures into one reportable
// error (CombineErrors) — rules.NewDriver validates every configured rule
// before giving up on any of them and uses CombineErrors to report all of
// them at once.
package errors

import "fmt"

// WrapError wraps an error with additional context. Returns nil if err is
// nil, so call sites can wrap unconditionally.
func WrapError(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// CombineErrors folds a slice of errors — some of which may be nil — into
// a single error, or nil if none of them are set. A single surviving error
// is returned as-is rather than wrapped, so callers checking for a
// specific error type with errors.As still work in the common case.
func CombineErrors(errs []error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}

	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return fmt.Errorf("%d errors occurred: %v", len(nonNil), nonNil)
	}
}
