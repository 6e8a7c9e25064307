// Package tempname generates the staging names the executor uses to shuttle
// a file through a temporary location when a two-step rename is required to
// unblock a dependency cycle.
package tempname

import (
	"crypto/rand"
	"path/filepath"
)

const (
	prefix      = "_molt_"
	letterCount = 8
	letters     = "abcdefghijklmnopqrstuvwxyz"
)

// Generate produces a temporary basename for destFull: the fixed prefix,
// 8 random lowercase letters, a dot, then destFull's own basename — e.g.
// for "/x/y/foo.txt" a result like "_molt_abcdefgh.foo.txt". The temporary
// name is returned joined into the same directory as destFull, matching
// the scheme's requirement that staging happens alongside the destination.
//
// Entropy is drawn from crypto/rand rather than a libc-style PRNG; collision
// is still possible in principle (the scheme is documented as probabilistic)
// and the executor treats a collision as an ordinary rename failure.
func Generate(destFull string) (string, error) {
	suffix, err := randomLetters(letterCount)
	if err != nil {
		return "", err
	}
	base := prefix + suffix + "." + filepath.Base(destFull)
	return filepath.Join(filepath.Dir(destFull), base), nil
}

func randomLetters(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = letters[int(b)%len(letters)]
	}
	return string(out), nil
}
