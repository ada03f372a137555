// Package glycan works out where the carbohydrate residues are. The
// heteroatom residue numbers of a sample model are cut into three
// contiguous ranges of (nearly) equal size, one per glycan group.
package glycan

import (
	"fmt"

	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pkg/common"
)

// Range is residue numbers Start to End, inclusive. If End < Start it is
// empty.
type Range struct {
	Start, End int
}

// Len is the number of residue numbers covered.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// Params holds the three glycan ranges, in order.
type Params struct {
	G [3]Range
}

// EqualRanges splits start..end into three contiguous ranges. The first
// ranges take the remainder, so lengths differ by at most one and never
// increase from one range to the next.
func EqualRanges(start, end int) Params {
	n := end - start + 1
	if n < 0 {
		n = 0
	}
	base, rem := n/3, n%3
	var p Params
	p.G[0] = Range{start, start + base - 1}
	if rem >= 1 {
		p.G[0].End++
	}
	p.G[1] = Range{p.G[0].End + 1, p.G[0].End + base}
	if rem >= 2 {
		p.G[1].End++
	}
	p.G[2] = Range{p.G[1].End + 1, end}
	return p
}

// HetRange gives the smallest and largest residue numbers among atoms
// that are not standard amino acids.
func HetRange(m *cmmn.Model) (lo, hi int, err error) {
	found := false
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Standard() {
			continue
		}
		if !found || a.ResNum < lo {
			lo = a.ResNum
		}
		if !found || a.ResNum > hi {
			hi = a.ResNum
		}
		found = true
	}
	if !found {
		return 0, 0, &common.NoHeteroatomsError{Model: m.Name}
	}
	return lo, hi, nil
}

// FromModel calculates the glycan ranges from a sample model.
func FromModel(m *cmmn.Model) (Params, error) {
	lo, hi, err := HetRange(m)
	if err != nil {
		return Params{}, err
	}
	return EqualRanges(lo, hi), nil
}
