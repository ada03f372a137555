// Package pdb/cmmn has common definitions for coordinates, atoms and
// models read from pdb files.
package cmmn

import (
	"strings"
)

// Does an atom come from an ATOM or HETATM record ?
type RecKind byte

const (
	AtomRec RecKind = iota
	HetRec
)

// String gives the record name as it appears in a pdb file, padded to six.
func (k RecKind) String() string {
	if k == HetRec {
		return "HETATM"
	}
	return "ATOM  "
}

type Xyz struct{ X, Y, Z float64 }

// Atom is one ATOM or HETATM record. Apart from coordinates, which the
// aligner moves, and the numbering fields, which renumbering rewrites,
// nothing changes after reading.
type Atom struct {
	Serial  int
	Name    string // trimmed, like "CA"
	AltLoc  byte
	ResName string // trimmed, like "ASN" or "NAG"
	ChainID string
	ResNum  int
	InsCode byte
	Xyz     Xyz
	Occ     float64
	BFac    float64
	Element string
	Charge  string
	Kind    RecKind
}

// Standard says if an atom belongs to one of the standard amino acids.
func (a *Atom) Standard() bool { return IsStdRes(a.ResName) }

// Model is one structure. Atoms are kept in file order. Meta holds every
// record that is not coordinates (CRYST1, REMARK, TER, END, ...) in the
// order seen, so they can be written back or thrown away.
type Model struct {
	Name  string // file it came from, or a label
	Atoms []Atom
	Meta  []string
}

// NAtom is the number of atoms
func (m *Model) NAtom() int { return len(m.Atoms) }

// Coords returns a fresh slice with the coordinates of every atom.
func (m *Model) Coords() []Xyz {
	ret := make([]Xyz, len(m.Atoms))
	for i := range m.Atoms {
		ret[i] = m.Atoms[i].Xyz
	}
	return ret
}

// Copy gives a deep copy, so renumbering a copy leaves the original alone.
func (m *Model) Copy() *Model {
	r := &Model{Name: m.Name}
	r.Atoms = append([]Atom(nil), m.Atoms...)
	r.Meta = append([]string(nil), m.Meta...)
	return r
}

// Sub returns a new model holding copies of the atoms at the given
// indices, in the order given. Meta records are copied too.
func (m *Model) Sub(ndx []int) *Model {
	r := &Model{Name: m.Name, Atoms: make([]Atom, len(ndx))}
	for i, j := range ndx {
		r.Atoms[i] = m.Atoms[j]
	}
	r.Meta = append([]string(nil), m.Meta...)
	return r
}

// ChainNames returns chain identifiers in order of first appearance.
func (m *Model) ChainNames() (ret []string) {
	seen := make(map[string]bool)
	for i := range m.Atoms {
		c := m.Atoms[i].ChainID
		if !seen[c] {
			seen[c] = true
			ret = append(ret, c)
		}
	}
	return
}

// Residue is a run of consecutive atoms sharing chain, number, insertion
// code and name. Atoms are m.Atoms[First:End].
type Residue struct {
	ChainID string
	Num     int
	InsCode byte
	Name    string
	First   int
	End     int
}

// sameRes says if two atoms are in the same residue.
func sameRes(a, b *Atom) bool {
	return a.ResNum == b.ResNum && a.InsCode == b.InsCode &&
		a.ChainID == b.ChainID && a.ResName == b.ResName
}

// Residues walks the atoms and groups them. A residue number that comes
// back later, after something else, is a new residue.
func (m *Model) Residues() []Residue {
	var ret []Residue
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if i == 0 || !sameRes(&m.Atoms[i-1], a) {
			ret = append(ret, Residue{ChainID: a.ChainID, Num: a.ResNum,
				InsCode: a.InsCode, Name: a.ResName, First: i, End: i + 1})
			continue
		}
		ret[len(ret)-1].End = i + 1
	}
	return ret
}

// stdRes are the twenty amino acids plus the protonation and disulfide
// names that force fields write.
var stdRes = map[string]bool{
	"ALA": true, "ARG": true, "ASN": true, "ASP": true, "CYS": true,
	"GLN": true, "GLU": true, "GLY": true, "HIS": true, "ILE": true,
	"LEU": true, "LYS": true, "MET": true, "PHE": true, "PRO": true,
	"SER": true, "THR": true, "TRP": true, "TYR": true, "VAL": true,
	"HID": true, "HIE": true, "HIP": true, "HSD": true, "HSE": true,
	"HSP": true, "CYX": true,
}

// IsStdRes says if a residue name is a standard amino acid.
func IsStdRes(name string) bool { return stdRes[strings.ToUpper(strings.TrimSpace(name))] }
