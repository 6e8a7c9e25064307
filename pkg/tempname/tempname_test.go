package tempname

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateShapeAndLocation(t *testing.T) {
	dest := "/x/y/foo.txt"
	got, err := Generate(dest)
	if err != nil {
		t.Fatal(err)
	}

	if dir := filepath.Dir(got); dir != filepath.Dir(dest) {
		t.Fatalf("Generate() dir = %q, want %q", dir, filepath.Dir(dest))
	}

	base := filepath.Base(got)
	if !strings.HasPrefix(base, prefix) {
		t.Fatalf("Generate() base = %q, want prefix %q", base, prefix)
	}
	if !strings.HasSuffix(base, ".foo.txt") {
		t.Fatalf("Generate() base = %q, want suffix %q", base, ".foo.txt")
	}
	letterPart := strings.TrimSuffix(strings.TrimPrefix(base, prefix), ".foo.txt")
	if len(letterPart) != letterCount {
		t.Fatalf("Generate() random segment length = %d, want %d", len(letterPart), letterCount)
	}
	for _, r := range letterPart {
		if !strings.ContainsRune(letters, r) {
			t.Fatalf("Generate() random segment %q contains non-lowercase-letter rune %q", letterPart, r)
		}
	}
}

func TestGenerateIsUnpredictable(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		got, err := Generate("/x/y/foo.txt")
		if err != nil {
			t.Fatal(err)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Fatalf("Generate() produced only %d distinct names across 50 calls", len(seen))
	}
}
