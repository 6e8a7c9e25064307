// Package fsprobe answers the single existence question the planner needs:
// does a path resolve to any filesystem object at all. Type discrimination
// (regular file vs directory vs symlink) is a concern of input ingestion,
// not of planning, so this package deliberately exposes nothing else.
package fsprobe

import "os"

// Exists reports whether path resolves to any filesystem object: a regular
// file, a directory, or a symlink (even a dangling one — Lstat does not
// follow the link, matching the "no type discrimination at classification
// time" contract).
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
