package common

import (
	"errors"
	"fmt"
)

// ErrNoFrames is returned when not a single model of an ensemble made it
// into the output.
var ErrNoFrames = errors.New("no frames accepted")

// EmptySelectionError says a selection that had to find atoms found none.
type EmptySelectionError struct {
	Model string // file or label of the structure
	Sel   string // the selection, printed
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("%s: selection %s matched no atoms", e.Model, e.Sel)
}

// NoHeteroatomsError says the sample model had no non-standard residues,
// so there is nothing to split into glycan ranges.
type NoHeteroatomsError struct {
	Model string
}

func (e *NoHeteroatomsError) Error() string {
	return fmt.Sprintf("%s: no heteroatom residues, cannot calculate glycan ranges", e.Model)
}

// UnsupportedTopologyError says the alignment has a chain break count
// we have no renumbering rules for.
type UnsupportedTopologyError struct {
	File   string
	NBreak int
}

func (e *UnsupportedTopologyError) Error() string {
	return fmt.Sprintf("%s: %d chain breaks (%d chains), only 3 or 6 chains are handled",
		e.File, e.NBreak, e.NBreak+1)
}

// MissingFragmentError says a fragment that a frame needs is absent or
// has no atoms.
type MissingFragmentError struct {
	Model    string
	Fragment string // like "CHB" or "CAR2"
	Reason   string
}

func (e *MissingFragmentError) Error() string {
	return fmt.Sprintf("%s: fragment %s %s", e.Model, e.Fragment, e.Reason)
}

// AtomCountMismatchError says a frame does not have the atom count set by
// the first frame of its ensemble.
type AtomCountMismatchError struct {
	Model string
	Got   int
	Want  int
}

func (e *AtomCountMismatchError) Error() string {
	return fmt.Sprintf("%s: frame has %d atoms, ensemble has %d", e.Model, e.Got, e.Want)
}

// SelectionMismatchError says the reference and mobile selections do not
// pair up, so there is no point to point correspondence. Either the counts
// differ, or atom Pos of the selection is not the same atom in both.
type SelectionMismatchError struct {
	Frame  int
	Got    int
	Want   int
	Pos    int
	Mobile string // set when the counts agree but the atoms do not
	Ref    string
}

func (e *SelectionMismatchError) Error() string {
	if e.Mobile != "" {
		return fmt.Sprintf("frame %d: selected atom %d is %s, reference has %s", e.Frame, e.Pos, e.Mobile, e.Ref)
	}
	return fmt.Sprintf("frame %d: selection has %d atoms, reference has %d", e.Frame, e.Got, e.Want)
}

// IsModelLevel says if an error only costs us one model. These are
// logged and the ensemble carries on. Anything else stops the ensemble.
func IsModelLevel(err error) bool {
	var mf *MissingFragmentError
	var am *AtomCountMismatchError
	var es *EmptySelectionError
	return errors.As(err, &mf) || errors.As(err, &am) || errors.As(err, &es)
}
