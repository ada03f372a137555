package glycan_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pkg/common"
	. "github.com/andrew-torda/glyco_traj/pkg/glycan"
)

// The three ranges must tile start..end exactly, with sizes that differ by
// at most one and do not grow.
func TestEqualRangesTile(t *testing.T) {
	for _, start := range []int{1, 100, 3394} {
		for n := 0; n < 50; n++ {
			end := start + n - 1
			p := EqualRanges(start, end)
			if p.G[0].Start != start || p.G[2].End != end {
				t.Fatalf("n %d ends wrong %v", n, p.G)
			}
			tot := 0
			for i, g := range p.G {
				tot += g.Len()
				if i > 0 && g.Start != p.G[i-1].End+1 {
					t.Errorf("n %d gap before range %d: %v", n, i, p.G)
				}
				if i > 0 && g.Len() > p.G[i-1].Len() {
					t.Errorf("n %d range %d bigger than previous %v", n, i, p.G)
				}
			}
			if tot != n {
				t.Errorf("n %d total %d", n, tot)
			}
			if d := p.G[0].Len() - p.G[2].Len(); d > 1 || d < 0 {
				t.Errorf("n %d sizes unbalanced %v", n, p.G)
			}
		}
	}
}

func TestEqualRangesKnown(t *testing.T) {
	p := EqualRanges(3394, 3861) // 468 residues
	want := [3]Range{{3394, 3549}, {3550, 3705}, {3706, 3861}}
	if p.G != want {
		t.Errorf("got %v want %v", p.G, want)
	}
	p = EqualRanges(1, 5)
	if want = [3]Range{{1, 2}, {3, 4}, {5, 5}}; p.G != want {
		t.Errorf("got %v want %v", p.G, want)
	}
	p = EqualRanges(7, 7)
	if p.G[0].Len() != 1 || p.G[1].Len() != 0 || p.G[2].Len() != 0 {
		t.Errorf("one residue %v", p.G)
	}
}

func TestFromModel(t *testing.T) {
	m := &cmmn.Model{Name: "sample", Atoms: []cmmn.Atom{
		{ResName: "ASN", ResNum: 5},
		{ResName: "NAG", ResNum: 3400},
		{ResName: "NAG", ResNum: 3394},
		{ResName: "MAN", ResNum: 3861},
		{ResName: "GLY", ResNum: 9000},
	}}
	p, err := FromModel(m)
	if err != nil {
		t.Fatal(err)
	}
	if p.G[0] != (Range{3394, 3549}) || p.G[2].End != 3861 {
		t.Error("got", p.G)
	}
	m.Atoms = m.Atoms[:1]
	_, err = FromModel(m)
	var nh *common.NoHeteroatomsError
	if !errors.As(err, &nh) {
		t.Error("wanted NoHeteroatomsError, got", err)
	}
}

func ExampleEqualRanges() {
	p := EqualRanges(1, 10)
	fmt.Println(p.G[0], p.G[1], p.G[2])
	// Output: 1-4 5-7 8-10
}
