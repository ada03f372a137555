// Package renum gives fragments new residue numbers and glues them
// together into one frame.
//
// Where each fragment starts is a table lookup on the topology.
// Three chains: A, B and C all start at the original first residue
// number of chain C. Six chains: A, C and E start there, B, D and F
// start at the length of the first chain plus one. Glycan groups always
// start at 1.
package renum

import (
	"fmt"

	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/extract"
	"github.com/andrew-torda/glyco_traj/pkg/pir"
	"github.com/andrew-torda/glyco_traj/pkg/slct"
)

// Origin says where a fragment's numbering starts.
type Origin byte

const (
	FromStart    Origin = iota // starting chain number
	FromFirstLen               // first chain length + 1
	FromOne                    // 1
)

// slot is one entry in the frame, in order.
type slot struct {
	label  string
	origin Origin
}

var glycanSlots = []slot{{"CAR1", FromOne}, {"CAR2", FromOne}, {"CAR3", FromOne}}

var slotTable = map[pir.Topology][]slot{
	pir.ThreeChain: append([]slot{
		{"CHA", FromStart}, {"CHB", FromStart}, {"CHC", FromStart},
	}, glycanSlots...),
	pir.SixChain: append([]slot{
		{"CHA", FromStart}, {"CHB", FromFirstLen},
		{"CHC", FromStart}, {"CHD", FromFirstLen},
		{"CHE", FromStart}, {"CHF", FromFirstLen},
	}, glycanSlots...),
}

// Offsets holds the two numbers the table refers to.
type Offsets struct {
	Start         int // first residue number of the starting chain in the untouched model
	FirstChainLen int
}

// Order gives the fragment labels of a frame, in order.
func Order(topo pir.Topology) []string {
	var ret []string
	for _, s := range slotTable[topo] {
		ret = append(ret, s.label)
	}
	return ret
}

// StartOf says where numbering of a fragment starts.
func StartOf(topo pir.Topology, label string, o Offsets) (int, error) {
	for _, s := range slotTable[topo] {
		if s.label != label {
			continue
		}
		switch s.origin {
		case FromStart:
			return o.Start, nil
		case FromFirstLen:
			return o.FirstChainLen + 1, nil
		default:
			return 1, nil
		}
	}
	return 0, fmt.Errorf("fragment %s has no place in a %s frame", label, topo)
}

// Renumber returns a copy of m with residues numbered from start, in the
// order they appear. Insertion codes go, since numbers are now unique.
// Chains and atom names are untouched.
func Renumber(m *cmmn.Model, start int) *cmmn.Model {
	r := m.Copy()
	for i, res := range r.Residues() {
		for j := res.First; j < res.End; j++ {
			r.Atoms[j].ResNum = start + i
			r.Atoms[j].InsCode = ' '
		}
	}
	return r
}

// StartingResNum finds the residue number of the first standard residue
// of a chain.
func StartingResNum(m *cmmn.Model, chain string) (int, error) {
	ndx, err := slct.SelectNonEmpty(m, slct.And(slct.Chain(chain), slct.Standard()))
	if err != nil {
		return 0, err
	}
	return m.Atoms[ndx[0]].ResNum, nil
}

// Concat joins models into one continuous run of atoms. Meta records are
// dropped and atoms are given serial numbers from 1.
func Concat(name string, parts ...*cmmn.Model) *cmmn.Model {
	n := 0
	for _, p := range parts {
		n += p.NAtom()
	}
	r := &cmmn.Model{Name: name, Atoms: make([]cmmn.Atom, 0, n)}
	for _, p := range parts {
		r.Atoms = append(r.Atoms, p.Atoms...)
	}
	for i := range r.Atoms {
		r.Atoms[i].Serial = i + 1
	}
	return r
}

// BuildFrame renumbers each fragment and joins them in frame order. If
// any fragment the topology wants is missing or empty, there is no frame.
func BuildFrame(name string, frags []extract.Fragment, topo pir.Topology, o Offsets) (*cmmn.Model, error) {
	byLabel := make(map[string]*cmmn.Model, len(frags))
	for _, f := range frags {
		byLabel[f.Label] = f.Model
	}
	slots := slotTable[topo]
	if slots == nil {
		return nil, fmt.Errorf("%s: no renumbering rules for %s", name, topo)
	}
	parts := make([]*cmmn.Model, 0, len(slots))
	for _, s := range slots {
		m, ok := byLabel[s.label]
		if !ok {
			return nil, &common.MissingFragmentError{Model: name, Fragment: s.label, Reason: "was not extracted"}
		}
		if m == nil || m.NAtom() == 0 {
			return nil, &common.MissingFragmentError{Model: name, Fragment: s.label, Reason: "has no atoms"}
		}
		start, _ := StartOf(topo, s.label, o)
		parts = append(parts, Renumber(m, start))
	}
	return Concat(name, parts...), nil
}
