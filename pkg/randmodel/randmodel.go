// 12 Mar 2024
// Package randmodel makes synthetic glycoprotein models. They look
// enough like modeller output for the pipeline to chew on: protein
// chains with a backbone, glycan residues as HETATM records after the
// protein, and an alignment file to go with them.

package randmodel

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/glyco_traj/pdb"
	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pdb/geom"
)

// Args is the set of arguments for making models
type Args struct {
	Iseed    int64  // random number seed
	Name     string // stem for file names
	NChain   int    // protein chains, 3 or 6 for anything useful
	ChainLen int    // residues per chain
	StartRes int    // number of the first residue; numbering runs on across chains
	NGlycan  int    // glycan residues, after the protein
	NModel   int    // models to write
	Noise    float64
}

var (
	aaNames  = []string{"ALA", "ASN", "ASP", "GLY", "LEU", "LYS", "SER", "THR", "VAL", "TRP"}
	aaOne    = []byte("ANDGLKSTVW")
	bbNames  = []string{"N", "CA", "C", "O"}
	sugNames = []string{"NAG", "MAN", "BMA", "FUC"}
	sugAtoms = []string{"C1", "C2", "O5"}
)

func chainID(i int) string { return string(rune('A' + i)) }

// GlycanChain is the chain letter given to the glycans, the one after the
// last protein chain.
func (a *Args) GlycanChain() string { return chainID(a.NChain) }

// Gen makes one model. Residue names come from the seed, so every model
// made with the same Args has the same sequence.
func Gen(args *Args, rnd *rand.Rand) *cmmn.Model {
	seqRnd := rand.New(rand.NewSource(args.Iseed))
	m := &cmmn.Model{Name: args.Name, Meta: []string{"REMARK   6 synthetic model"}}
	resnum := args.StartRes
	var pos cmmn.Xyz
	step := func(d float64) cmmn.Xyz {
		pos = geom.Add(pos, cmmn.Xyz{X: d + rnd.Float64(), Y: rnd.NormFloat64(), Z: rnd.NormFloat64()})
		return pos
	}
	add := func(kind cmmn.RecKind, name, res, chain string, num int, xyz cmmn.Xyz) {
		m.Atoms = append(m.Atoms, cmmn.Atom{Serial: len(m.Atoms) + 1, Name: name, AltLoc: ' ',
			ResName: res, ChainID: chain, ResNum: num, InsCode: ' ', Xyz: xyz, Occ: 1,
			Element: name[:1], Kind: kind})
	}
	for c := 0; c < args.NChain; c++ {
		for r := 0; r < args.ChainLen; r++ {
			res := aaNames[seqRnd.Intn(len(aaNames))]
			for _, an := range bbNames {
				add(cmmn.AtomRec, an, res, chainID(c), resnum, step(0.5))
			}
			resnum++
		}
	}
	for g := 0; g < args.NGlycan; g++ {
		res := sugNames[seqRnd.Intn(len(sugNames))]
		for _, an := range sugAtoms {
			add(cmmn.HetRec, an, res, args.GlycanChain(), resnum, step(0.5))
		}
		resnum++
	}
	return m
}

// Rotation gives a random rotation matrix, from a random unit quaternion.
func Rotation(rnd *rand.Rand) [3][3]float64 {
	var q [4]float64
	var l float64
	for l < 1e-6 {
		for i := range q {
			q[i] = rnd.NormFloat64()
		}
		l = math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	}
	w, x, y, z := q[0]/l, q[1]/l, q[2]/l, q[3]/l
	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
}

// Move returns a copy of m with every atom rotated by rot and then
// shifted by t.
func Move(m *cmmn.Model, rot [3][3]float64, t cmmn.Xyz) *cmmn.Model {
	r := m.Copy()
	for i := range r.Atoms {
		p := r.Atoms[i].Xyz
		r.Atoms[i].Xyz = cmmn.Xyz{
			X: rot[0][0]*p.X + rot[0][1]*p.Y + rot[0][2]*p.Z + t.X,
			Y: rot[1][0]*p.X + rot[1][1]*p.Y + rot[1][2]*p.Z + t.Y,
			Z: rot[2][0]*p.X + rot[2][1]*p.Y + rot[2][2]*p.Z + t.Z,
		}
	}
	return r
}

// Perturb moves a model rigidly to somewhere random and then adds
// gaussian noise of the given size to each coordinate.
func Perturb(m *cmmn.Model, rnd *rand.Rand, noise float64) *cmmn.Model {
	t := cmmn.Xyz{X: 20 * rnd.NormFloat64(), Y: 20 * rnd.NormFloat64(), Z: 20 * rnd.NormFloat64()}
	r := Move(m, Rotation(rnd), t)
	if noise > 0 {
		for i := range r.Atoms {
			x := &r.Atoms[i].Xyz
			x.X += noise * rnd.NormFloat64()
			x.Y += noise * rnd.NormFloat64()
			x.Z += noise * rnd.NormFloat64()
		}
	}
	return r
}

// Alignment writes a pir file with a template and a query entry. Both
// have the same sequence, chains separated by '/'.
func Alignment(w io.Writer, args *Args) error {
	seqRnd := rand.New(rand.NewSource(args.Iseed))
	var chains []string
	for c := 0; c < args.NChain; c++ {
		var sb strings.Builder
		for r := 0; r < args.ChainLen; r++ {
			sb.WriteByte(aaOne[seqRnd.Intn(len(aaOne))])
		}
		chains = append(chains, sb.String())
	}
	seq := strings.Join(chains, "/") + "*"
	_, err := fmt.Fprintf(w, ">P1;templ\nstructureX:templ: :A: :%s:::-1.00:-1.00\n%s\n\n"+
		">P1;%s\nsequence:%s:::::::0.00: 0.00\n%s\n",
		chainID(args.NChain-1), seq, args.Name, args.Name, seq)
	return err
}

// WriteSet writes NModel models and the alignment file into dir. Each
// model is the first one, moved and jiggled. It returns the model file
// names and the alignment file name.
func WriteSet(dir string, args *Args) ([]string, string, error) {
	rnd := rand.New(rand.NewSource(args.Iseed + 1))
	base := Gen(args, rnd)
	var fnames []string
	for i := 1; i <= args.NModel; i++ {
		m := base
		if i > 1 {
			m = Perturb(base, rnd, args.Noise)
		}
		fname := filepath.Join(dir, fmt.Sprintf("%s.B%08d.pdb", args.Name, i))
		if err := writeFile(fname, func(w io.Writer) error { return pdb.WriteModel(w, m) }); err != nil {
			return nil, "", err
		}
		fnames = append(fnames, fname)
	}
	ali := filepath.Join(dir, args.Name+".ali")
	if err := writeFile(ali, func(w io.Writer) error { return Alignment(w, args) }); err != nil {
		return nil, "", err
	}
	return fnames, ali, nil
}

func writeFile(fname string, f func(io.Writer) error) error {
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := f(fp); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
