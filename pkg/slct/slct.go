// Package slct has the small atom selection language we need:
// chain, standard residue, residue number range, atom name, and the
// boolean combinations of these. An expression is a tree of Expr,
// evaluated atom by atom.
package slct

import (
	"strconv"
	"strings"

	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pkg/common"
)

type kind byte

const (
	kAll kind = iota
	kChain
	kStd
	kResRange
	kAtomName
	kAnd
	kOr
	kNot
)

// Expr is one node of a selection. Build them with the functions below.
type Expr struct {
	kind   kind
	chain  string
	lo, hi int
	names  []string
	kids   []Expr
}

// All matches everything.
func All() Expr { return Expr{kind: kAll} }

// Chain matches atoms with the given chain identifier.
func Chain(id string) Expr { return Expr{kind: kChain, chain: id} }

// Standard matches atoms in the standard amino acids.
func Standard() Expr { return Expr{kind: kStd} }

// ResRange matches residue numbers lo to hi, inclusive. If hi < lo,
// nothing matches.
func ResRange(lo, hi int) Expr { return Expr{kind: kResRange, lo: lo, hi: hi} }

// AtomName matches any of the names given.
func AtomName(names ...string) Expr {
	return Expr{kind: kAtomName, names: append([]string(nil), names...)}
}

// And is true if every argument is. With no arguments, it is true.
func And(e ...Expr) Expr { return Expr{kind: kAnd, kids: append([]Expr(nil), e...)} }

// Or is true if any argument is. With no arguments, it is false.
func Or(e ...Expr) Expr { return Expr{kind: kOr, kids: append([]Expr(nil), e...)} }

// Not inverts its argument.
func Not(e Expr) Expr { return Expr{kind: kNot, kids: []Expr{e}} }

// Match says if an atom is selected.
func (e Expr) Match(a *cmmn.Atom) bool {
	switch e.kind {
	case kAll:
		return true
	case kChain:
		return a.ChainID == e.chain
	case kStd:
		return a.Standard()
	case kResRange:
		return a.ResNum >= e.lo && a.ResNum <= e.hi
	case kAtomName:
		for _, n := range e.names {
			if a.Name == n {
				return true
			}
		}
		return false
	case kAnd:
		for _, k := range e.kids {
			if !k.Match(a) {
				return false
			}
		}
		return true
	case kOr:
		for _, k := range e.kids {
			if k.Match(a) {
				return true
			}
		}
		return false
	case kNot:
		return !e.kids[0].Match(a)
	}
	panic("slct: unknown expression kind " + strconv.Itoa(int(e.kind)))
}

// String prints the expression in a form people can read in log files.
func (e Expr) String() string {
	join := func(op string) string {
		s := make([]string, len(e.kids))
		for i, k := range e.kids {
			s[i] = k.String()
		}
		return "(" + strings.Join(s, " "+op+" ") + ")"
	}
	switch e.kind {
	case kAll:
		return "all"
	case kChain:
		return "chain " + e.chain
	case kStd:
		return "protein"
	case kResRange:
		return "resid " + strconv.Itoa(e.lo) + " to " + strconv.Itoa(e.hi)
	case kAtomName:
		return "name " + strings.Join(e.names, " ")
	case kAnd:
		return join("and")
	case kOr:
		return join("or")
	case kNot:
		return "not " + e.kids[0].String()
	}
	return "?"
}

// Select returns the indices of matching atoms, in file order.
func Select(m *cmmn.Model, e Expr) []int {
	var ndx []int
	for i := range m.Atoms {
		if e.Match(&m.Atoms[i]) {
			ndx = append(ndx, i)
		}
	}
	return ndx
}

// SelectNonEmpty is Select, but finding nothing is an error.
func SelectNonEmpty(m *cmmn.Model, e Expr) ([]int, error) {
	ndx := Select(m, e)
	if len(ndx) == 0 {
		return nil, &common.EmptySelectionError{Model: m.Name, Sel: e.String()}
	}
	return ndx, nil
}

// Extract returns a new model with copies of the selected atoms. It may
// be empty.
func Extract(m *cmmn.Model, e Expr) *cmmn.Model { return m.Sub(Select(m, e)) }
