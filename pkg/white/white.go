// Package white squeezes white space out of byte slices. Alignment files
// wrap sequences over many lines, so this is used before counting.

package white

import (
	"bytes"
)

var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

func isWhite(c byte) bool { return asciiSpace[c] }

// Remove acts on a byte slice, in place and removes all the white
// space. The slice comes back with the length adjusted, but the capacity
// unchanged.
func Remove(sIn *[]byte) {
	s := *sIn
	n := 0
	for _, c := range s {
		if !isWhite(c) {
			s[n] = c
			n++
		}
	}
	*sIn = s[:n]
}

// RemoveByFields does the same as Remove, but with the library.
// It is slower and is kept for the benchmark.
func RemoveByFields(sIn *[]byte) {
	*sIn = bytes.Join(bytes.Fields(*sIn), nil)
}
