//

package geom_test

import (
	"math"
	"testing"

	. "github.com/andrew-torda/glyco_traj/pdb/cmmn"
	. "github.com/andrew-torda/glyco_traj/pdb/geom"
)

// permuteXyz rotates x, y znd z for tests whose answers should not change
// when we move the axes around.
func permuteXyz(x Xyz) Xyz {
	x.X, x.Y, x.Z = x.Y, x.Z, x.X
	return x
}

// notApproxEqual returns true if x and y are not approximately equal.
func notApproxEqual(x, y float64) bool {
	diff := math.Abs(x - y)
	return math.IsNaN(diff) || diff > 0.00001
}

func TestDist(t *testing.T) {
	x1, x2 := Xyz{X: 3, Y: 3, Z: 3}, Xyz{X: 1, Y: 0, Z: 0}
	want := math.Sqrt(4 + 9 + 9)
	for i := 0; i < 3; i++ {
		if d := Dist(x1, x2); notApproxEqual(d, want) {
			t.Errorf("got %f want %f", d, want)
		}
		if d := Dist(x2, x1); notApproxEqual(d, want) {
			t.Errorf("not symmetric %f", d)
		}
		x1, x2 = permuteXyz(x1), permuteXyz(x2)
	}
}

func TestCentroid(t *testing.T) {
	pts := []Xyz{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 1, Y: 3, Z: -6}}
	c, err := Centroid(pts)
	if err != nil {
		t.Fatal(err)
	}
	if notApproxEqual(c.X, 1) || notApproxEqual(c.Y, 1) || notApproxEqual(c.Z, -2) {
		t.Error("centroid", c)
	}
	if _, err := Centroid(nil); err != ErrEmpty {
		t.Error("wanted ErrEmpty on nothing")
	}
}

func TestRMSD(t *testing.T) {
	a := []Xyz{{X: 0}, {X: 1}, {X: 2}}
	b := []Xyz{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}}
	if r, err := RMSD(a, b); err != nil || notApproxEqual(r, 1) {
		t.Error("shifted by one, got", r, err)
	}
	if r, _ := RMSD(a, a); r != 0 {
		t.Error("self rmsd", r)
	}
	if _, err := RMSD(a, b[:2]); err != ErrLenMatch {
		t.Error("length mismatch not caught")
	}
	if _, err := RMSD(nil, nil); err != ErrEmpty {
		t.Error("empty not caught")
	}
}

var angletests = []struct {
	x1, x2, x3 Xyz
	res        float64
}{
	{Xyz{X: +1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 0.9999, Y: 0, Z: 0}, 0},
	{Xyz{X: -0, Y: 1, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1.0000, Y: 0, Z: 0}, math.Pi / 2},
	{Xyz{X: -1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1.0000, Y: 0, Z: 0}, math.Pi},
	{Xyz{X: +0, Y: 1, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 9.9000, Y: 0, Z: 0}, math.Pi / 2},
	{Xyz{X: -1, Y: 0, Z: 0}, Xyz{X: 0, Y: 0, Z: 0}, Xyz{X: 1.0000, Y: 1, Z: 0}, math.Pi * 3 / 4},
}

func TestXyzAngle(t *testing.T) {
	for _, test := range angletests {
		x1, x2, x3 := test.x1, test.x2, test.x3
		for i := 0; i < 3; i++ {
			if a, err := XyzAngle(x1, x2, x3); err != nil {
				t.Errorf("%v error with %v %v %v", err, x1, x2, x3)
			} else if notApproxEqual(a, test.res) {
				t.Errorf("TestXyzAngle got %f wanted %f, %v, %v, %v",
					a, test.res, x1, x2, x3)
			}
			x1, x2, x3 = permuteXyz(x1), permuteXyz(x2), permuteXyz(x3)
		}
	}
}

var dhdrltests = []struct {
	x1, x2, x3, x4 Xyz
	res            float64
}{
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 1, Z: 0}, 0},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: -1, Z: 0}, math.Pi},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 0, Z: 1}, -math.Pi / 2},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 0, Z: -1}, math.Pi / 2},
	{Xyz{X: 0, Y: 1, Z: 0}, Xyz{X: 1, Y: 0, Z: 0}, Xyz{X: 2, Y: 0, Z: 0}, Xyz{X: 3, Y: 1, Z: -1}, math.Pi / 4},
}

func TestXyzDhdrl(t *testing.T) {
	for _, test := range dhdrltests {
		x1, x2, x3, x4 := test.x1, test.x2, test.x3, test.x4
		const emsg = "error with %v %v %v %v wanted: %.3g got: %.3g"
		for i := 0; i < 3; i++ {
			a := XyzDhdrl(x1, x2, x3, x4)
			if notApproxEqual(a, test.res) {
				t.Errorf(emsg, x1, x2, x3, x4, test.res, a)
			}
			x1, x2, x3, x4 = permuteXyz(x1), permuteXyz(x2), permuteXyz(x3), permuteXyz(x4)
		}
	}
}
