// Package pathkey canonicalises input paths to the absolute, lexically
// normalised form used as the key for the action table and reservation
// table throughout planning.
//
// Canonicalisation here is purely lexical: it never touches the
// filesystem, never resolves symlinks, and never follows hardlinks. Two
// paths that refer to the same file through different symlinks are
// therefore treated as distinct — a deliberate simplification the planner
// relies on for O(1) reservation lookups by string equality.
package pathkey

import (
	"os"
	"path/filepath"
	"strings"
)

const sep = string(filepath.Separator)

// Canonicalize normalises input relative to cwd: it is prefixed with cwd
// if not already absolute, then its "." and ".." segments are resolved
// left to right without consulting the filesystem. A leading ".." is
// clamped at the root instead of escaping it, mirroring how an absolute
// path can never climb above "/".
//
// It returns the canonical absolute path and the byte offset of its final
// segment (the basename) within that path.
func Canonicalize(cwd, input string) (full string, baseIdx int) {
	if !filepath.IsAbs(input) {
		if cwd == "" {
			cwd, _ = os.Getwd()
		}
		input = filepath.Join(cwd, input)
	}

	segments := strings.Split(input, sep)
	stack := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case "", ".":
			// elided: empty segments come from the leading slash and
			// repeated separators, both meaningless once we rebuild the
			// path from the stack.
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			// else: clamped at root, nothing to pop.
		default:
			stack = append(stack, seg)
		}
	}

	full = sep + strings.Join(stack, sep)
	baseIdx = strings.LastIndex(full, sep) + 1
	return full, baseIdx
}

// Base returns the final path segment of a canonical path.
func Base(full string) string {
	return full[strings.LastIndex(full, sep)+1:]
}

// Dir returns the directory portion of a canonical path, including the
// trailing separator for the root ("/" stays "/").
func Dir(full string) string {
	idx := strings.LastIndex(full, sep)
	if idx <= 0 {
		return sep
	}
	return full[:idx]
}
