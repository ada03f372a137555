// Package pir reads the alignment file that went into building the
// models (PIR format, as modeller writes it) and works out how many
// chains the complex has and how long the first chain is.
//
// An entry looks like
//
//	>P1;name
//	sequence:name:::::::0.00: 0.00
//	ACDEF/GHIK-LM/NPQ*
//
// Chains are separated by '/'. Gaps ('-', '.') and the terminating '*'
// are not residues.
package pir

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/white"
)

const (
	DfltPrefix = "sequence:" // marks the entry for the model being built
	chainBreak = '/'
)

// Topology is the number of protein chains. Only two are handled.
type Topology int

const (
	ThreeChain Topology = 3
	SixChain   Topology = 6
)

// Chains gives the chain letters, in order, of a topology.
func (t Topology) Chains() []string {
	return strings.Split("ABCDEF"[:int(t)], "")
}

func (t Topology) String() string { return fmt.Sprintf("%d-chain", int(t)) }

// Counts is what we learn from one sequence.
type Counts struct {
	NRes       int // residues, not counting gaps or breaks
	NBreak     int // chain break markers
	FirstChain int // residues before the first break
}

// Count walks a sequence that has had its white space removed.
func Count(seq []byte) Counts {
	var c Counts
	for _, b := range seq {
		switch b {
		case chainBreak:
			c.NBreak++
		case '*', common.GapChar, '.':
		default:
			c.NRes++
			if c.NBreak == 0 {
				c.FirstChain++
			}
		}
	}
	return c
}

// DetermineChainLen maps the number of chain breaks to a topology.
// file is only for the error message.
func DetermineChainLen(nbreak int, file string) (Topology, error) {
	switch nbreak {
	case 2:
		return ThreeChain, nil
	case 5:
		return SixChain, nil
	}
	return 0, &common.UnsupportedTopologyError{File: file, NBreak: nbreak}
}

// Params are worked out once per ensemble and then only read.
type Params struct {
	Topology      Topology
	FirstChainLen int
	NRes          int
}

// entry is one record of a pir file.
type entry struct {
	code string
	desc string
	seq  []byte
}

// split breaks the contents of a file into entries. Text before the first
// '>' is ignored.
func split(buf []byte) []entry {
	var ret []entry
	lines := bytes.Split(buf, []byte("\n"))
	for i := 0; i < len(lines); i++ {
		l := bytes.TrimRight(lines[i], "\r")
		if len(l) == 0 || l[0] != '>' {
			if n := len(ret); n > 0 {
				ret[n-1].seq = append(ret[n-1].seq, l...)
			}
			continue
		}
		e := entry{code: string(l[1:])}
		if j := strings.IndexByte(e.code, ';'); j != -1 {
			e.code = e.code[j+1:]
		}
		e.code = strings.TrimSpace(e.code)
		if i+1 < len(lines) {
			i++
			e.desc = strings.TrimSpace(string(bytes.TrimRight(lines[i], "\r")))
		}
		ret = append(ret, e)
	}
	return ret
}

// find picks out the entry whose description starts with prefix, or
// whose code is prefix, without any trailing colon.
func find(ents []entry, prefix string) *entry {
	code := strings.TrimSuffix(prefix, ":")
	for i := range ents {
		if strings.HasPrefix(ents[i].desc, prefix) || ents[i].code == code {
			return &ents[i]
		}
	}
	return nil
}

// Parse finds the query entry in the contents of an alignment file and
// derives the chain parameters. fname is for messages.
func Parse(buf []byte, fname, prefix string) (Params, error) {
	if prefix == "" {
		prefix = DfltPrefix
	}
	ents := split(buf)
	e := find(ents, prefix)
	if e == nil {
		return Params{}, fmt.Errorf("%s: no entry marked %q in %d entries", fname, prefix, len(ents))
	}
	white.Remove(&e.seq)
	c := Count(e.seq)
	topo, err := DetermineChainLen(c.NBreak, fname)
	if err != nil {
		return Params{}, err
	}
	return Params{Topology: topo, FirstChainLen: c.FirstChain, NRes: c.NRes}, nil
}

// Analyze maps an alignment file and gets its parameters.
func Analyze(fname, prefix string) (Params, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return Params{}, err
	}
	defer fp.Close()
	if info, err := fp.Stat(); err != nil {
		return Params{}, err
	} else if info.Size() == 0 {
		return Params{}, fmt.Errorf("%s: empty alignment file", fname)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return Params{}, fmt.Errorf("mapping %s: %w", fname, err)
	}
	defer mm.Unmap()
	buf := make([]byte, len(mm)) // entries are edited in place, so not on the map
	copy(buf, mm)
	return Parse(buf, fname, prefix)
}
