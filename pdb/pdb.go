// This is the upper level for reading and writing PDB files.
// Decide if a file is compressed or not, and what format
// we are going to read. Only the old, column based format is read.
// mmcif is recognised so we can say so, rather than produce rubbish.

package pdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pdb/zwrap"
)

const (
	old_fmt byte = iota
	mmcif_fmt
	unk_fmt
)

// comparefirst says if two words are the same, looking at
// the length of the shorter
func comparefirst(s, t string) bool {
	l1 := len(s)
	if l2 := len(t); l2 < l1 {
		l1 = l2
	}
	return s[:l1] == t[:l1]
}

// lookInFile opens a file and guesses if it is in old PDB format or
// in mmcif.
func lookInFile(fname string) (byte, error) {
	pdbWords := []string{"COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM", "MODEL", "CRYST1"}
	mmcifWords := []string{"data_", "loop_", "_atom_site."}
	rdr, err := zwrap.Open(fname)
	if err != nil {
		return unk_fmt, err
	}
	defer rdr.Close()

	const maxTestLines = 5000
	scnnr := bufio.NewScanner(rdr)
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		if s == "" {
			continue
		}
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return mmcif_fmt, nil
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return old_fmt, nil
			}
		}
	}
	return unk_fmt, errors.New(fname + ": cannot recognise format")
}

// oldOrMmcif decides what format we will use.
// Maybe it uses the file name or maybe it peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func oldOrMmcif(fname string) (byte, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		if strings.Contains(s, "pdb") || strings.Contains(s, "ent") {
			return old_fmt, nil
		} else if strings.Contains(s, "cif") {
			return mmcif_fmt, nil
		}
	}
	return lookInFile(fname)
}

// ReadEnsemble reads every model in a file. A file without MODEL records
// is one model.
func ReadEnsemble(fname string) ([]*cmmn.Model, error) {
	typ, err := oldOrMmcif(fname)
	if err != nil {
		return nil, err
	}
	if typ == mmcif_fmt {
		return nil, errors.New(fname + ": mmcif reading not written, convert to pdb format")
	}
	rdr, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	return ReadFrom(rdr, fname)
}

// ReadModel reads a file and returns the first model.
func ReadModel(fname string) (*cmmn.Model, error) {
	mdls, err := ReadEnsemble(fname)
	if err != nil {
		return nil, err
	}
	return mdls[0], nil
}

// ReadFrom does the work of reading. name is used for labelling models
// and in error messages.
// Records before the first MODEL belong to the first model.
func ReadFrom(rdr io.Reader, name string) ([]*cmmn.Model, error) {
	var mdls []*cmmn.Model
	var cur *cmmn.Model
	inModel := false
	newModel := func() {
		cur = &cmmn.Model{Name: name}
		mdls = append(mdls, cur)
	}
	newModel()
	scnnr := bufio.NewScanner(rdr)
	scnnr.Buffer(make([]byte, 0, 256), 1024*1024)
	for n := 1; scnnr.Scan(); n++ {
		line := strings.TrimRight(scnnr.Text(), "\r")
		rec := line
		if len(rec) > 6 {
			rec = rec[:6]
		}
		switch strings.TrimSpace(rec) {
		case "ATOM", "HETATM":
			atom, err := parseAtom(line)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", name, n, err)
			}
			cur.Atoms = append(cur.Atoms, atom)
		case "MODEL":
			if inModel || len(cur.Atoms) != 0 {
				newModel()
			}
			inModel = true
		case "ENDMDL":
			inModel = false
		default:
			cur.Meta = append(cur.Meta, line)
		}
	}
	if err := scnnr.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(mdls[len(mdls)-1].Atoms) == 0 && len(mdls) > 1 { // trailing END after last ENDMDL
		mdls = mdls[:len(mdls)-1]
	}
	return mdls, nil
}

// col returns columns [i, j) of a line, or less if the line is short.
// Numbering starts from zero.
func col(line string, i, j int) string {
	if i >= len(line) {
		return ""
	}
	if j > len(line) {
		j = len(line)
	}
	return line[i:j]
}

func colByte(line string, i int) byte {
	if i >= len(line) {
		return ' '
	}
	return line[i]
}

// parseAtom picks apart an ATOM or HETATM record, using the fixed column
// layout. Coordinates are mandatory, the rest is tolerated if missing.
// Serial numbers that do not parse (overflow stars, hybrid-36) become 0,
// since we renumber them anyway.
func parseAtom(line string) (cmmn.Atom, error) {
	var a cmmn.Atom
	var err error
	if len(line) < 54 {
		return a, fmt.Errorf("atom record too short (%d chars)", len(line))
	}
	a.Kind = cmmn.AtomRec
	if strings.HasPrefix(line, "HETATM") {
		a.Kind = cmmn.HetRec
	}
	a.Serial, _ = strconv.Atoi(strings.TrimSpace(col(line, 6, 11)))
	a.Name = strings.TrimSpace(col(line, 12, 16))
	a.AltLoc = colByte(line, 16)
	a.ResName = strings.TrimSpace(col(line, 17, 20))
	a.ChainID = strings.TrimSpace(col(line, 21, 22))
	if a.ResNum, err = strconv.Atoi(strings.TrimSpace(col(line, 22, 26))); err != nil {
		return a, fmt.Errorf("residue number %q: %w", col(line, 22, 26), err)
	}
	a.InsCode = colByte(line, 26)
	xyz := [3]*float64{&a.Xyz.X, &a.Xyz.Y, &a.Xyz.Z}
	for i, p := range xyz {
		s := strings.TrimSpace(col(line, 30+8*i, 38+8*i))
		if *p, err = strconv.ParseFloat(s, 64); err != nil {
			return a, fmt.Errorf("coordinate %q: %w", s, err)
		}
	}
	a.Occ, _ = strconv.ParseFloat(strings.TrimSpace(col(line, 54, 60)), 64)
	a.BFac, _ = strconv.ParseFloat(strings.TrimSpace(col(line, 60, 66)), 64)
	a.Element = strings.TrimSpace(col(line, 76, 78))
	a.Charge = strings.TrimSpace(col(line, 78, 80))
	return a, nil
}

// fmtName puts an atom name in columns 13-16 the way pdb files do it.
// Names of four characters and names whose element has two letters start
// in column 13. Everything else starts in column 14.
func fmtName(a *cmmn.Atom) string {
	name := a.Name
	if len(name) >= 4 {
		return name[:4]
	}
	if len(a.Element) == 2 && strings.HasPrefix(strings.ToUpper(name), strings.ToUpper(a.Element)) {
		return fmt.Sprintf("%-4s", name)
	}
	return fmt.Sprintf(" %-3s", name)
}

func orBlank(c byte) byte {
	if c == 0 {
		return ' '
	}
	return c
}

// AtomLine formats one atom record, without a newline.
// Serial numbers wrap after 99999, since the column cannot hold more.
func AtomLine(a *cmmn.Atom) string {
	const atomFmt = "%s%5d %s%c%3s %1s%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s%-2s"
	return fmt.Sprintf(atomFmt, a.Kind, a.Serial%100000, fmtName(a), orBlank(a.AltLoc),
		a.ResName, a.ChainID, a.ResNum, orBlank(a.InsCode),
		a.Xyz.X, a.Xyz.Y, a.Xyz.Z, a.Occ, a.BFac, a.Element, a.Charge)
}

// WriteModel writes a model as a stand alone file: meta records (except
// terminators), atoms, a TER after each chain and END.
func WriteModel(w io.Writer, m *cmmn.Model) error {
	bw := bufio.NewWriter(w)
	for _, s := range m.Meta {
		switch strings.TrimSpace(col(s, 0, 6)) {
		case "TER", "END", "ENDMDL", "MODEL", "CONECT", "MASTER":
			continue
		}
		fmt.Fprintln(bw, s)
	}
	for i := range m.Atoms {
		a := &m.Atoms[i]
		fmt.Fprintln(bw, AtomLine(a))
		if i == len(m.Atoms)-1 || m.Atoms[i+1].ChainID != a.ChainID {
			fmt.Fprintf(bw, "TER   %5d      %3s %1s%4d\n", (a.Serial+1)%100000, a.ResName, a.ChainID, a.ResNum)
		}
	}
	fmt.Fprintln(bw, "END")
	return bw.Flush()
}

// WriteFrame writes one model between MODEL and ENDMDL records. Only atom
// records go in, so the frame is one continuous stream of atoms.
func WriteFrame(w io.Writer, num int, m *cmmn.Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "MODEL     %4d\n", num)
	for i := range m.Atoms {
		fmt.Fprintln(bw, AtomLine(&m.Atoms[i]))
	}
	fmt.Fprintln(bw, "ENDMDL")
	return bw.Flush()
}

// WriteEnd finishes a multi-model file.
func WriteEnd(w io.Writer) error {
	_, err := fmt.Fprintln(w, "END")
	return err
}

// WriteEnsemble writes frames, numbered from 1, and the final END.
func WriteEnsemble(w io.Writer, frames []*cmmn.Model) error {
	for i, m := range frames {
		if err := WriteFrame(w, i+1, m); err != nil {
			return err
		}
	}
	return WriteEnd(w)
}

// outPerm is the mode of files we write, like those from a shell redirect.
const outPerm = 0644

// WriteFileAtomic calls wrt with a temporary file in the same directory
// as fname. If wrt succeeds, the temporary file is renamed to fname.
// If anything fails, the temporary file is removed and fname is not
// touched. Either there is a complete file or none.
func WriteFileAtomic(fname string, wrt func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(fname), "."+filepath.Base(fname)+".part*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = wrt(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(outPerm); err != nil { // CreateTemp makes files owner only
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fname)
}
