package white_test

import (
	"testing"

	. "github.com/andrew-torda/glyco_traj/pkg/white"
)

var ss = []string{
	"abcdefghijk",
	" a b c d e f g h i j k",
	"a b c de fgh ijk",
	"   abcdefghijk    ",
	"a   b      cdefghijk\n ",
	"a  b  c  d   e    f     ghijk",
	"a bcdefghij   k",
	"abcdefghij\r\nk",
}

// TestRemove
func TestRemove(t *testing.T) {
	for _, f := range []func(*[]byte){Remove, RemoveByFields} {
		for _, s := range ss {
			b := []byte(s)
			f(&b)
			if string(b) != "abcdefghijk" {
				t.Fatalf("white remove broke on \"%s\" got \"%s\"", s, b)
			}
		}
	}
	var b []byte
	Remove(&b)
	if len(b) != 0 {
		t.Error("empty slice")
	}
}
