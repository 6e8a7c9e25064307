package pathkey

import "testing"

func TestCanonicalizeAbsolute(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"/a/b/c", "/a/b/c"},
		{"/a/./b", "/a/b"},
		{"/a/b/../c", "/a/c"},
		{"/a/../../b", "/b"}, // clamped at root
		{"/../a", "/a"},
		{"/a//b", "/a/b"},
		{"/", "/"},
		{"/a/b/..", "/a"},
	}
	for _, tc := range cases {
		got, _ := Canonicalize("/w", tc.input)
		if got != tc.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCanonicalizeRelative(t *testing.T) {
	got, _ := Canonicalize("/w", "foo/../bar")
	if got != "/w/bar" {
		t.Errorf("Canonicalize relative = %q, want /w/bar", got)
	}

	got, _ = Canonicalize("/w", "./foo")
	if got != "/w/foo" {
		t.Errorf("Canonicalize relative = %q, want /w/foo", got)
	}
}

func TestCanonicalizeBaseIdx(t *testing.T) {
	full, baseIdx := Canonicalize("/w", "/a/b/c.txt")
	if full[baseIdx:] != "c.txt" {
		t.Errorf("baseIdx points at %q, want c.txt", full[baseIdx:])
	}
}

func TestBaseAndDir(t *testing.T) {
	if got := Base("/a/b/c.txt"); got != "c.txt" {
		t.Errorf("Base() = %q, want c.txt", got)
	}
	if got := Dir("/a/b/c.txt"); got != "/a/b" {
		t.Errorf("Dir() = %q, want /a/b", got)
	}
	if got := Dir("/a"); got != "/" {
		t.Errorf("Dir(%q) = %q, want /", "/a", got)
	}
}

func TestCanonicalEqualityIsStringEquality(t *testing.T) {
	a, _ := Canonicalize("/w", "/a/./b")
	b, _ := Canonicalize("/w", "/a/x/../b")
	if a != b {
		t.Errorf("expected equal canonical forms, got %q and %q", a, b)
	}
}
