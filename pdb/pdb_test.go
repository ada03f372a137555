package pdb_test

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/glyco_traj/brokenio"
	. "github.com/andrew-torda/glyco_traj/pdb"
	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
)

const (
	atomN  = "ATOM      1  N   MET A   1      27.340  24.430   2.614  1.00  9.67           N  "
	atomCA = "ATOM      2  CA  MET A   1      26.266  25.413   2.842  1.00 10.38           C  "
	hetC1  = "HETATM 3400  C1  NAG C3394      10.000 -20.500   3.250  1.00  0.00           C  "
)

var twoModel = strings.Join([]string{
	"REMARK   1 made by hand",
	"MODEL        1",
	atomN, atomCA, hetC1,
	"ENDMDL",
	"MODEL        2",
	atomN, atomCA, hetC1,
	"ENDMDL",
	"END",
}, "\n") + "\n"

func TestAtomLine(t *testing.T) {
	for _, line := range []string{atomN, atomCA, hetC1} {
		mdls, err := ReadFrom(strings.NewReader(line+"\n"), "x")
		if err != nil {
			t.Fatal(err)
		}
		if got := AtomLine(&mdls[0].Atoms[0]); got != line {
			t.Errorf("\nwant %q\ngot  %q", line, got)
		}
	}
}

func TestReadFields(t *testing.T) {
	mdls, err := ReadFrom(strings.NewReader(hetC1), "x")
	if err != nil {
		t.Fatal(err)
	}
	want := cmmn.Atom{Serial: 3400, Name: "C1", AltLoc: ' ', ResName: "NAG", ChainID: "C",
		ResNum: 3394, InsCode: ' ', Xyz: cmmn.Xyz{X: 10, Y: -20.5, Z: 3.25},
		Occ: 1, Element: "C", Kind: cmmn.HetRec}
	if diff := cmp.Diff(want, mdls[0].Atoms[0]); diff != "" {
		t.Error("atom differs (-want +got):\n", diff)
	}
}

func TestMultiModel(t *testing.T) {
	mdls, err := ReadFrom(strings.NewReader(twoModel), "two")
	if err != nil {
		t.Fatal(err)
	}
	if len(mdls) != 2 {
		t.Fatalf("wanted 2 models, got %d", len(mdls))
	}
	for i, m := range mdls {
		if m.NAtom() != 3 {
			t.Errorf("model %d has %d atoms", i, m.NAtom())
		}
	}
	var b bytes.Buffer
	if err := WriteEnsemble(&b, mdls); err != nil {
		t.Fatal(err)
	}
	again, err := ReadFrom(&b, "again")
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 2 || again[1].Atoms[2] != mdls[1].Atoms[2] {
		t.Error("writing and reading back changed the ensemble")
	}
}

func TestSingleModel(t *testing.T) {
	s := strings.Join([]string{"CRYST1", atomN, atomCA, "TER", "END"}, "\n")
	mdls, err := ReadFrom(strings.NewReader(s), "one")
	if err != nil {
		t.Fatal(err)
	}
	if len(mdls) != 1 || mdls[0].NAtom() != 2 {
		t.Fatal("wanted one model with two atoms")
	}
	var b bytes.Buffer
	if err := WriteModel(&b, mdls[0]); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if strings.Count(out, "TER") != 1 || !strings.HasSuffix(out, "END\n") {
		t.Errorf("bad terminators in\n%s", out)
	}
	if !strings.HasPrefix(out, "CRYST1") {
		t.Error("lost the header")
	}
}

func TestBadRecords(t *testing.T) {
	bad := []string{
		"ATOM      1  N   MET A   1      27.340",                                           // short
		"ATOM      1  N   MET A   x      27.340  24.430   2.614  1.00  9.67           N  ", // resnum
		"ATOM      1  N   MET A   1      27.340  24.4x0   2.614  1.00  9.67           N  ", // coord
	}
	for _, s := range bad {
		if _, err := ReadFrom(strings.NewReader(s), "bad"); err == nil {
			t.Errorf("no error on %q", s)
		}
	}
}

func TestBrokenReader(t *testing.T) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(twoModel)))
	rdr.SetFailAfter(100)
	if _, err := ReadFrom(rdr, "broken"); !errors.Is(err, brokenio.ErrBroken) {
		t.Error("read error not passed back, got", err)
	}
}

var fnameTypes = []struct {
	fname string
	ftype byte
}{
	{"boo.mmcif", Mmcif_fmt},
	{"boo.mmcif.gz", Mmcif_fmt},
	{"a/b/c.ent", Old_fmt},
	{"a\\b.ent.gz", Old_fmt},
	{"a.pdb", Old_fmt},
	{"a.pdb.gz", Old_fmt},
}

func TestOldOrMmcif(t *testing.T) {
	for _, f := range fnameTypes {
		r, err := OldOrMmcif(f.fname)
		if err != nil {
			t.Error(f.fname, err)
		}
		if r != f.ftype {
			t.Errorf("%s got type %d", f.fname, r)
		}
	}
	dir := t.TempDir()
	peek := filepath.Join(dir, "peedeebee")
	os.WriteFile(peek, []byte(atomN+"\n"), 0644)
	if r, err := OldOrMmcif(peek); err != nil || r != Old_fmt {
		t.Error("looking inside", peek, r, err)
	}
	cif := filepath.Join(dir, "ememcif")
	os.WriteFile(cif, []byte("data_1ABC\nloop_\n"), 0644)
	if r, _ := OldOrMmcif(cif); r != Mmcif_fmt {
		t.Error("did not recognise mmcif from contents")
	}
	if _, err := ReadEnsemble(filepath.Join(dir, "x.cif")); err == nil {
		t.Error("mmcif should be refused")
	}
}

func TestReadGzipped(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "m.pdb.gz")
	var b bytes.Buffer
	zw := gzip.NewWriter(&b)
	zw.Write([]byte(twoModel))
	zw.Close()
	if err := os.WriteFile(fname, b.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := ReadModel(fname)
	if err != nil {
		t.Fatal(err)
	}
	if m.NAtom() != 3 {
		t.Error("wrong atom count", m.NAtom())
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "out.pdb")
	boom := errors.New("boom")
	err := WriteFileAtomic(fname, func(w io.Writer) error {
		io.WriteString(w, "half")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Error("wanted our error back, got", err)
	}
	if ents, _ := os.ReadDir(dir); len(ents) != 0 {
		t.Error("failed write left files behind")
	}
	err = WriteFileAtomic(fname, func(w io.Writer) error {
		_, err := io.WriteString(w, "whole")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(fname); string(b) != "whole" {
		t.Errorf("got %q", b)
	}
	fi, err := os.Stat(fname)
	if err != nil {
		t.Fatal(err)
	}
	if perm := fi.Mode().Perm(); perm != 0644 {
		t.Errorf("file mode %v, others cannot read it", perm)
	}
}
