// Package superpose does least squares rigid body fitting of one set of
// points onto another. Rotation from the singular value decomposition of
// the covariance matrix (Kabsch), with the usual fix so we never get a
// reflection.
package superpose

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pdb/geom"
)

// Transform is x' = Rot x + T.
type Transform struct {
	Rot [3][3]float64
	T   cmmn.Xyz
}

// Identity does nothing.
func Identity() Transform {
	return Transform{Rot: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Apply moves one point.
func (t Transform) Apply(x cmmn.Xyz) cmmn.Xyz {
	r := &t.Rot
	return cmmn.Xyz{
		X: r[0][0]*x.X + r[0][1]*x.Y + r[0][2]*x.Z + t.T.X,
		Y: r[1][0]*x.X + r[1][1]*x.Y + r[1][2]*x.Z + t.T.Y,
		Z: r[2][0]*x.X + r[2][1]*x.Y + r[2][2]*x.Z + t.T.Z,
	}
}

// ApplyModel moves every atom of m, in place.
func (t Transform) ApplyModel(m *cmmn.Model) {
	for i := range m.Atoms {
		m.Atoms[i].Xyz = t.Apply(m.Atoms[i].Xyz)
	}
}

// IsIdentity says if no element of the rotation differs from the
// identity by more than tol and no component of the translation is
// bigger than tol.
func (t Transform) IsIdentity(tol float64) bool {
	id := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(t.Rot[i][j]-id.Rot[i][j]) > tol {
				return false
			}
		}
	}
	return math.Abs(t.T.X) <= tol && math.Abs(t.T.Y) <= tol && math.Abs(t.T.Z) <= tol
}

func (t Transform) String() string {
	return fmt.Sprintf("rot %v trans %.3f %.3f %.3f", t.Rot, t.T.X, t.T.Y, t.T.Z)
}

var errSVD = errors.New("superpose: svd did not converge")

// center returns the points minus their centroid, and the centroid.
func center(x []cmmn.Xyz) ([]cmmn.Xyz, cmmn.Xyz, error) {
	c, err := geom.Centroid(x)
	if err != nil {
		return nil, c, err
	}
	r := make([]cmmn.Xyz, len(x))
	for i, v := range x {
		r[i] = geom.Diff(c, v)
	}
	return r, c, nil
}

// Covariance is the 3x3 matrix sum over points of mobile_i ref_i^T, both
// taken about their centroids.
func Covariance(mobile, ref []cmmn.Xyz) (*mat.Dense, error) {
	if len(mobile) != len(ref) {
		return nil, geom.ErrLenMatch
	}
	pm, _, err := center(mobile)
	if err != nil {
		return nil, err
	}
	pr, _, _ := center(ref)
	return covar(pm, pr), nil
}

func covar(pm, pr []cmmn.Xyz) *mat.Dense {
	h := mat.NewDense(3, 3, nil)
	for i := range pm {
		a := [3]float64{pm[i].X, pm[i].Y, pm[i].Z}
		b := [3]float64{pr[i].X, pr[i].Y, pr[i].Z}
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				h.Set(j, k, h.At(j, k)+a[j]*b[k])
			}
		}
	}
	return h
}

// Fit finds the rotation and translation that take mobile onto ref
// with the smallest root mean square deviation. Point i of mobile is
// paired with point i of ref.
func Fit(mobile, ref []cmmn.Xyz) (Transform, error) {
	if len(mobile) != len(ref) {
		return Transform{}, geom.ErrLenMatch
	}
	pm, mc, err := center(mobile)
	if err != nil {
		return Transform{}, err
	}
	pr, rc, _ := center(ref)
	h := covar(pm, pr)

	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDFull); !ok {
		return Transform{}, errSVD
	}
	var u, v, vut mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	vut.Mul(&v, u.T())
	d := 1.0
	if mat.Det(&vut) < 0 {
		d = -1
	}
	var tmp, rot mat.Dense
	tmp.Mul(&v, mat.NewDiagDense(3, []float64{1, 1, d}))
	rot.Mul(&tmp, u.T())

	var t Transform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.Rot[i][j] = rot.At(i, j)
		}
	}
	rmc := Transform{Rot: t.Rot}.Apply(mc)
	t.T = geom.Diff(rmc, rc)
	return t, nil
}

// RMSD is the deviation between two sets of points as they stand.
func RMSD(a, b []cmmn.Xyz) (float64, error) { return geom.RMSD(a, b) }

// FitRMSD fits and returns the deviation after fitting.
func FitRMSD(mobile, ref []cmmn.Xyz) (Transform, float64, error) {
	t, err := Fit(mobile, ref)
	if err != nil {
		return t, math.NaN(), err
	}
	moved := make([]cmmn.Xyz, len(mobile))
	for i, x := range mobile {
		moved[i] = t.Apply(x)
	}
	r, err := geom.RMSD(moved, ref)
	return t, r, err
}
