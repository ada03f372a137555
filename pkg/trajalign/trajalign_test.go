package trajalign_test

import (
	"errors"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/glyco_traj/pdb"
	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pdb/geom"
	"github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/randmodel"
	"github.com/andrew-torda/glyco_traj/pkg/slct"
	. "github.com/andrew-torda/glyco_traj/pkg/trajalign"
)

// ensemble makes n copies of one model, scattered in space.
func ensemble(n int, noise float64) []*cmmn.Model {
	args := randmodel.Args{Iseed: 1, NChain: 3, ChainLen: 6, StartRes: 1, NGlycan: 3}
	rnd := rand.New(rand.NewSource(11))
	base := randmodel.Gen(&args, rnd)
	ret := []*cmmn.Model{base}
	for i := 1; i < n; i++ {
		ret = append(ret, randmodel.Perturb(base, rnd, noise))
	}
	return ret
}

func TestAlign(t *testing.T) {
	frames := ensemble(5, 0)
	res, err := Align(frames, DefaultSelection())
	require.Nil(t, err)
	require.Len(t, res.Frames, 5)
	require.Equal(t, 3*6*4, res.NSel)
	for i, f := range res.Frames {
		r, err := geom.RMSD(f.Coords(), frames[0].Coords())
		require.Nil(t, err)
		require.InDelta(t, 0, r, 1e-6, "frame %d", i) // all atoms, glycans too
		require.InDelta(t, 0, res.RMSD.Mat[RowAfter][i], 1e-4)
		if i > 0 {
			require.Greater(t, res.RMSD.Mat[RowBefore][i], float32(0.5))
		}
	}
	require.NotEqual(t, frames[1].Atoms[0].Xyz, res.Frames[1].Atoms[0].Xyz, "input frames should not move")
}

// Aligning an aligned ensemble must do nothing.
func TestIdempotent(t *testing.T) {
	res, err := Align(ensemble(4, 0.3), DefaultSelection())
	require.Nil(t, err)
	again, err := Align(res.Frames, DefaultSelection())
	require.Nil(t, err)
	for i, tr := range again.Transforms {
		require.True(t, tr.IsIdentity(1e-6), "frame %d transform %s", i, tr)
	}
}

func TestSingleFrame(t *testing.T) {
	frames := ensemble(1, 0)
	res, err := Align(frames, DefaultSelection())
	require.Nil(t, err)
	require.True(t, res.Transforms[0].IsIdentity(1e-9))
}

func TestEmptySelection(t *testing.T) {
	_, err := Align(ensemble(3, 0), slct.Chain("Z"))
	var es *common.EmptySelectionError
	require.True(t, errors.As(err, &es))

	frames := ensemble(3, 0)
	frames[2] = slct.Extract(frames[2], slct.Not(slct.Standard()))
	_, err = Align(frames, DefaultSelection())
	require.True(t, errors.As(err, &es), "got %v", err)

	_, err = Align(nil, DefaultSelection())
	require.True(t, errors.Is(err, common.ErrNoFrames))
}

func TestMismatch(t *testing.T) {
	frames := ensemble(3, 0)
	frames[1] = frames[1].Sub([]int{0, 1, 2, 3, 4})
	_, err := Align(frames, DefaultSelection())
	var sm *common.SelectionMismatchError
	require.True(t, errors.As(err, &sm))
	require.Equal(t, 1, sm.Frame)
}

// Same number of atoms, but two of them in the other order.
func TestSwappedAtoms(t *testing.T) {
	frames := ensemble(3, 0.1)
	at := frames[1].Atoms
	require.Equal(t, "CA", at[1].Name)
	require.Equal(t, "C", at[2].Name)
	at[1], at[2] = at[2], at[1]
	_, err := Align(frames, DefaultSelection())
	var sm *common.SelectionMismatchError
	require.True(t, errors.As(err, &sm), "got %v", err)
	require.Equal(t, 1, sm.Frame)
	require.Equal(t, 1, sm.Pos)
	require.True(t, strings.HasPrefix(sm.Mobile, "C "), sm.Mobile)
	require.True(t, strings.HasPrefix(sm.Ref, "CA "), sm.Ref)
}

func TestAlignFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ens.pdb")
	out := filepath.Join(dir, "ens_aligned.pdb")
	frames := ensemble(3, 0.2)
	require.Nil(t, pdb.WriteFileAtomic(in, func(w io.Writer) error { return pdb.WriteEnsemble(w, frames) }))
	res, err := AlignFile(in, out, Selection([]string{"CA"}), nil)
	require.Nil(t, err)
	require.Equal(t, 3*6, res.NSel)
	back, err := pdb.ReadEnsemble(out)
	require.Nil(t, err)
	require.Len(t, back, 3)
	var sb strings.Builder
	require.Nil(t, Report(&sb, res))
	require.Equal(t, 4, strings.Count(sb.String(), "\n"))

	_, err = AlignFile(in, filepath.Join(dir, "never.pdb"), slct.Chain("Z"), nil)
	require.NotNil(t, err)
	_, err = pdb.ReadEnsemble(filepath.Join(dir, "never.pdb"))
	require.NotNil(t, err, "failed alignment left a file")
}
