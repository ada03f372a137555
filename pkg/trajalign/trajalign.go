// Package trajalign superposes every frame of an ensemble onto the first
// one. The fit uses a selection of atoms (by default the protein backbone)
// and the resulting rotation and translation are applied to all atoms of
// the frame.
package trajalign

import (
	"fmt"
	"io"
	"log"

	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/glyco_traj/pdb"
	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/slct"
	"github.com/andrew-torda/glyco_traj/pkg/superpose"
)

// BackboneNames are the atoms we fit on, unless told otherwise.
var BackboneNames = []string{"N", "CA", "C", "O"}

// Selection picks standard residue atoms with the given names.
func Selection(names []string) slct.Expr {
	return slct.And(slct.Standard(), slct.AtomName(names...))
}

// DefaultSelection is the protein backbone.
func DefaultSelection() slct.Expr { return Selection(BackboneNames) }

// Row numbers of Result.RMSD
const (
	RowBefore = iota
	RowAfter
)

// Result has the moved frames, in the original order, the transform
// applied to each and the deviation from the reference over the
// selected atoms before and after fitting.
type Result struct {
	Frames     []*cmmn.Model
	Transforms []superpose.Transform
	RMSD       *matrix.FMatrix2d // 2 x nframe, float32, good to about 1e-6 relative
	NSel       int
}

// Align fits each frame onto frame 0. The input frames are not touched.
// Any frame where the selection is empty stops everything, as does a
// frame whose selection does not pair up with the reference.
func Align(frames []*cmmn.Model, sel slct.Expr) (*Result, error) {
	if len(frames) == 0 {
		return nil, common.ErrNoFrames
	}
	refNdx, err := slct.SelectNonEmpty(frames[0], sel)
	if err != nil {
		return nil, err
	}
	ref := coords(frames[0], refNdx)
	res := &Result{
		Frames:     make([]*cmmn.Model, len(frames)),
		Transforms: make([]superpose.Transform, len(frames)),
		RMSD:       matrix.NewFMatrix2d(2, len(frames)),
		NSel:       len(refNdx),
	}
	for i, f := range frames {
		ndx, err := slct.SelectNonEmpty(f, sel)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if len(ndx) != len(refNdx) {
			return nil, &common.SelectionMismatchError{Frame: i, Got: len(ndx), Want: len(refNdx)}
		}
		if err := pairUp(i, f, frames[0], ndx, refNdx); err != nil {
			return nil, err
		}
		mobile := coords(f, ndx)
		before, _ := superpose.RMSD(mobile, ref)
		t, after, err := superpose.FitRMSD(mobile, ref)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		moved := f.Copy()
		t.ApplyModel(moved)
		res.Frames[i] = moved
		res.Transforms[i] = t
		res.RMSD.Mat[RowBefore][i] = float32(before)
		res.RMSD.Mat[RowAfter][i] = float32(after)
	}
	return res, nil
}

// pairUp checks that the k'th selected atom of the frame is the same
// atom as the k'th of the reference, judged by chain, residue and atom names.
func pairUp(frame int, m, ref *cmmn.Model, ndx, refNdx []int) error {
	for k := range ndx {
		a, b := &m.Atoms[ndx[k]], &ref.Atoms[refNdx[k]]
		if a.Name != b.Name || a.ResName != b.ResName || a.ChainID != b.ChainID {
			return &common.SelectionMismatchError{Frame: frame, Got: len(ndx), Want: len(refNdx),
				Pos: k, Mobile: atomLabel(a), Ref: atomLabel(b)}
		}
	}
	return nil
}

func atomLabel(a *cmmn.Atom) string {
	return fmt.Sprintf("%s %s %s%d", a.Name, a.ResName, a.ChainID, a.ResNum)
}

func coords(m *cmmn.Model, ndx []int) []cmmn.Xyz {
	x := make([]cmmn.Xyz, len(ndx))
	for i, j := range ndx {
		x[i] = m.Atoms[j].Xyz
	}
	return x
}

// Report writes a line per frame with the deviations.
func Report(w io.Writer, r *Result) error {
	if _, err := fmt.Fprintf(w, "# frame rmsd_before rmsd_after (%d atoms)\n", r.NSel); err != nil {
		return err
	}
	_, ncol := r.RMSD.Size()
	for i := 0; i < ncol; i++ {
		if _, err := fmt.Fprintf(w, "%5d %8.3f %8.3f\n", i+1,
			r.RMSD.Mat[RowBefore][i], r.RMSD.Mat[RowAfter][i]); err != nil {
			return err
		}
	}
	return nil
}

// AlignFile reads a multi-model file, aligns it and writes the result to
// out. Nothing is written unless everything worked.
func AlignFile(in, out string, sel slct.Expr, lg *log.Logger) (*Result, error) {
	lg = common.Quiet(lg)
	frames, err := pdb.ReadEnsemble(in)
	if err != nil {
		return nil, err
	}
	res, err := Align(frames, sel)
	if err != nil {
		return nil, fmt.Errorf("aligning %s: %w", in, err)
	}
	if err := pdb.WriteFileAtomic(out, func(w io.Writer) error {
		return pdb.WriteEnsemble(w, res.Frames)
	}); err != nil {
		return nil, err
	}
	var worst float32
	for _, v := range res.RMSD.Mat[RowAfter] {
		if v > worst {
			worst = v
		}
	}
	lg.Printf("aligned %d frames of %s on %d atoms (%s), worst rmsd after fit %.3f", len(res.Frames), in, res.NSel, sel, worst)
	return res, nil
}
