// Calculate some geometries, lengths, angles and deviations

package geom

import (
	"math"

	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrEmpty    = Error("no coordinates")
	ErrLenMatch = Error("coordinate sets differ in length")
)

// Diff gets the difference of two vectors, end - start
func Diff(start, end cmmn.Xyz) (diff cmmn.Xyz) {
	diff.X = end.X - start.X
	diff.Y = end.Y - start.Y
	diff.Z = end.Z - start.Z
	return diff
}

// Add adds two vectors
func Add(u, v cmmn.Xyz) cmmn.Xyz { return cmmn.Xyz{X: u.X + v.X, Y: u.Y + v.Y, Z: u.Z + v.Z} }

// Scale multiplies a vector by a scalar
func Scale(v cmmn.Xyz, f float64) cmmn.Xyz { return cmmn.Xyz{X: f * v.X, Y: f * v.Y, Z: f * v.Z} }

// vecProd returns the vector product of two vectors
func vecProd(u, v cmmn.Xyz) (res cmmn.Xyz) {
	res.X = u.Y*v.Z - u.Z*v.Y
	res.Y = u.Z*v.X - u.X*v.Z
	res.Z = u.X*v.Y - u.Y*v.X
	return res
}

// sclrProd returns the dot / scalar product of two vectors
func sclrProd(u, v cmmn.Xyz) float64 { return (u.X*v.X + u.Y*v.Y + u.Z*v.Z) }

// Len2 gives us the length squared
func Len2(v cmmn.Xyz) float64 { return (v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Dist is the distance between two points
func Dist(x1, x2 cmmn.Xyz) float64 { return math.Sqrt(Len2(Diff(x1, x2))) }

// Centroid is the unweighted mean of the points.
func Centroid(x []cmmn.Xyz) (cmmn.Xyz, error) {
	var c cmmn.Xyz
	if len(x) == 0 {
		return c, ErrEmpty
	}
	for _, v := range x {
		c = Add(c, v)
	}
	return Scale(c, 1/float64(len(x))), nil
}

// RMSD is the root mean square deviation of two sets of points, taken
// as they are, no fitting.
func RMSD(x1, x2 []cmmn.Xyz) (float64, error) {
	if len(x1) != len(x2) {
		return math.NaN(), ErrLenMatch
	}
	if len(x1) == 0 {
		return math.NaN(), ErrEmpty
	}
	var sum float64
	for i := range x1 {
		sum += Len2(Diff(x1[i], x2[i]))
	}
	return math.Sqrt(sum / float64(len(x1))), nil
}

// XyzAngle takes three points and returns the angle between them
func XyzAngle(a, b, c cmmn.Xyz) (float64, error) {
	x1 := Diff(b, a)
	x2 := Diff(b, c)
	cosalpha := sclrProd(x1, x2) / (math.Sqrt(Len2(x1)) * math.Sqrt(Len2(x2)))
	if cosalpha > 1 && cosalpha < 1.01 { // numerical noise
		return 0.0, nil
	}
	if cosalpha < -1 && cosalpha > -1.01 {
		return math.Pi, nil
	}
	if !(cosalpha >= -1 && cosalpha <= 1) {
		return math.NaN(), Error("Broken angle")
	}
	return math.Acos(cosalpha), nil
}

// XyzDhdrl takes four points and returns the dihedral angle
func XyzDhdrl(ii, jj, kk, ll cmmn.Xyz) float64 {
	r_ij := Diff(ii, jj)
	r_kj := Diff(kk, jj)
	r_kl := Diff(kk, ll)
	var r_im, r_ln cmmn.Xyz
	{
		tmp := sclrProd(r_ij, r_kj) / Len2(r_kj)
		r_im = Diff(r_ij, Scale(r_kj, tmp))
	}
	{
		tmp := sclrProd(r_kl, r_kj) / Len2(r_kj)
		r_ln = Diff(Scale(r_kj, tmp), r_kl)
	}
	var tau float64
	{
		t_cos := sclrProd(r_im, r_ln) / (math.Sqrt(Len2(r_im)) * math.Sqrt(Len2(r_ln)))
		if t_cos > 1 { // Numerical errors can catch us. If so, no need
			return 0.0 // to call acos()
		}
		if t_cos < -1 {
			return math.Pi
		}
		tau = math.Acos(t_cos)
	}

	if sclrProd(r_ij, vecProd(r_kj, r_kl)) >= 0 {
		return (tau)
	}
	return (-tau)
}
