// Package extract cuts a model into the pieces that make up a frame:
// one fragment per protein chain and three glycan fragments.
// Fragments are plain values. If something wants them on disc, Spill
// writes them to a directory the caller owns and Reload reads them back.
package extract

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/andrew-torda/glyco_traj/pdb"
	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/glycan"
	"github.com/andrew-torda/glyco_traj/pkg/slct"
)

// Role says if a fragment is protein or carbohydrate.
type Role byte

const (
	Protein Role = iota
	Glycan
)

// Fragment is one piece of a model. Model may have no atoms. Whoever
// builds the frame decides if that matters.
type Fragment struct {
	Label string // CHA..CHF or CAR1..CAR3
	Role  Role
	Chain string // original chain for protein, "" for glycans
	Model *cmmn.Model
}

// ProteinLabel is the label of the fragment for a chain, "A" gives "CHA".
func ProteinLabel(chain string) string { return "CH" + chain }

// GlycanLabel is the label of glycan group i, counting from zero.
func GlycanLabel(i int) string { return fmt.Sprintf("CAR%d", i+1) }

// ProteinSel is how protein chains are picked out.
func ProteinSel(chain string) slct.Expr { return slct.And(slct.Chain(chain), slct.Standard()) }

// GlycanSel picks out one glycan group by residue number.
func GlycanSel(r glycan.Range) slct.Expr {
	return slct.And(slct.Not(slct.Standard()), slct.ResRange(r.Start, r.End))
}

// Extract returns protein fragments in the order of chains, then the
// three glycan fragments.
func Extract(m *cmmn.Model, gp glycan.Params, chains []string) []Fragment {
	frags := make([]Fragment, 0, len(chains)+len(gp.G))
	for _, c := range chains {
		frags = append(frags, Fragment{Label: ProteinLabel(c), Role: Protein, Chain: c,
			Model: slct.Extract(m, ProteinSel(c))})
	}
	for i, r := range gp.G {
		frags = append(frags, Fragment{Label: GlycanLabel(i), Role: Glycan,
			Model: slct.Extract(m, GlycanSel(r))})
	}
	return frags
}

func fragFile(dir, label string) string { return filepath.Join(dir, label+".pdb") }

// Spill writes each fragment to dir/<label>.pdb. Empty fragments are
// written too, as files with no atoms, so Reload can complain about them.
func Spill(dir string, frags []Fragment) error {
	for _, f := range frags {
		fp, err := os.Create(fragFile(dir, f.Label))
		if err != nil {
			return err
		}
		if err = pdb.WriteModel(fp, f.Model); err != nil {
			fp.Close()
			return fmt.Errorf("writing fragment %s: %w", f.Label, err)
		}
		if err = fp.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Reload reads the fragments named by the templates back from dir. The
// templates supply labels and roles. A file that is missing, cannot be
// read or has no atoms gives a MissingFragmentError for model name.
func Reload(dir, name string, tmpl []Fragment) ([]Fragment, error) {
	ret := make([]Fragment, len(tmpl))
	for i, f := range tmpl {
		fname := fragFile(dir, f.Label)
		if _, err := os.Stat(fname); errors.Is(err, fs.ErrNotExist) {
			return nil, &common.MissingFragmentError{Model: name, Fragment: f.Label, Reason: "file is absent"}
		}
		fp, err := os.Open(fname)
		if err != nil {
			return nil, err
		}
		mdls, err := readFrag(fp, fname)
		fp.Close()
		if err != nil {
			return nil, &common.MissingFragmentError{Model: name, Fragment: f.Label, Reason: "unreadable: " + err.Error()}
		}
		if mdls.NAtom() == 0 {
			return nil, &common.MissingFragmentError{Model: name, Fragment: f.Label, Reason: "file has no atoms"}
		}
		ret[i] = f
		ret[i].Model = mdls
	}
	return ret, nil
}

func readFrag(r io.Reader, fname string) (*cmmn.Model, error) {
	mdls, err := pdb.ReadFrom(r, fname)
	if err != nil {
		return nil, err
	}
	return mdls[0], nil
}

// Check returns a MissingFragmentError for the first fragment with no
// atoms.
func Check(name string, frags []Fragment) error {
	for _, f := range frags {
		if f.Model == nil || f.Model.NAtom() == 0 {
			return &common.MissingFragmentError{Model: name, Fragment: f.Label, Reason: "has no atoms"}
		}
	}
	return nil
}
