// Package ensemble turns a list of model files into one multi-model
// file. Each model is cut into fragments, renumbered and glued back
// together into a frame. Frames go into the output in model order, as
// long as they have the same number of atoms as the first frame that
// made it. Models that fail are logged and skipped.
//
// Building frames is independent, so it runs in parallel, a window of
// models at a time. Deciding what goes into the output is done strictly
// in model order.
package ensemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/glyco_traj/pdb"
	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/extract"
	"github.com/andrew-torda/glyco_traj/pkg/glycan"
	"github.com/andrew-torda/glyco_traj/pkg/pir"
	"github.com/andrew-torda/glyco_traj/pkg/renum"
)

// Params are fixed for a whole ensemble.
type Params struct {
	Topology pir.Topology
	Glycans  glycan.Params
	Offsets  renum.Offsets
}

// Options control how the work is done, not what comes out.
type Options struct {
	Workers  int         // frames built at once
	SpillDir string      // if set, fragments go through files in a temporary directory here
	Logger   *log.Logger // nil is quiet
}

// DefaultOptions uses every cpu and keeps fragments in memory.
func DefaultOptions() Options { return Options{Workers: runtime.NumCPU()} }

// Assembler is the consistency gate. The first frame it accepts fixes the
// atom count, and later frames must match.
type Assembler struct {
	w        io.Writer
	lg       *log.Logger
	expected int
	gateSet  bool // expected is fixed
	nFrame   int
}

// New makes an Assembler writing frames to w.
func New(w io.Writer, lg *log.Logger) *Assembler {
	return &Assembler{w: w, lg: common.Quiet(lg)}
}

// Add offers frame number ndx (the model index, for messages). If the
// atom count is wrong, the frame is dropped, a warning is logged and an
// AtomCountMismatchError comes back. Any other error is from writing.
func (a *Assembler) Add(ndx int, frame *cmmn.Model) error {
	n := frame.NAtom()
	if !a.gateSet {
		a.expected, a.gateSet = n, true
	} else if n != a.expected {
		err := &common.AtomCountMismatchError{Model: frame.Name, Got: n, Want: a.expected}
		a.lg.Printf("warning: model %d skipped: %v", ndx, err)
		return err
	}
	a.nFrame++
	return pdb.WriteFrame(a.w, a.nFrame, frame)
}

// NFrame is the number of frames accepted so far.
func (a *Assembler) NFrame() int { return a.nFrame }

// Expected is the atom count every frame must have. It means nothing
// until a frame has been accepted.
func (a *Assembler) Expected() int { return a.expected }

// Finish writes the end of the file. Without frames, it is ErrNoFrames.
func (a *Assembler) Finish() error {
	if a.nFrame == 0 {
		return common.ErrNoFrames
	}
	return pdb.WriteEnd(a.w)
}

// BuildFrame makes a frame from a model. With a spill directory, the
// fragments are written to a fresh directory under it and read back
// from there. The directory goes away however we leave.
func BuildFrame(m *cmmn.Model, p Params, spillDir string) (*cmmn.Model, error) {
	frags := extract.Extract(m, p.Glycans, p.Topology.Chains())
	if spillDir != "" {
		dir, err := os.MkdirTemp(spillDir, "frag")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(dir)
		if err := extract.Spill(dir, frags); err != nil {
			return nil, err
		}
		if frags, err = extract.Reload(dir, m.Name, frags); err != nil {
			return nil, err
		}
	}
	return renum.BuildFrame(m.Name, frags, p.Topology, p.Offsets)
}

// Rejection says why a model did not make it.
type Rejection struct {
	Ndx  int
	File string
	Err  error
}

// Result summarises an ensemble.
type Result struct {
	Out      string
	NAtom    int
	Accepted []int // model indices, in output order
	Rejected []Rejection
}

type built struct {
	frame *cmmn.Model
	err   error // only per model trouble
}

// buildOne loads a model and builds its frame. Errors that only cost this
// model go in the result. Anything else is returned and stops the work.
func buildOne(fname string, p Params, opts *Options) (built, error) {
	m, err := pdb.ReadModel(fname)
	if err != nil {
		return built{err: fmt.Errorf("loading: %w", err)}, nil
	}
	frame, err := BuildFrame(m, p, opts.SpillDir)
	if err != nil {
		if common.IsModelLevel(err) {
			return built{err: err}, nil
		}
		return built{}, fmt.Errorf("%s: %w", fname, err)
	}
	return built{frame: frame}, nil
}

// Assemble builds frames from the model files, in the order given, and
// writes the accepted ones to out. out only appears if at least one frame
// was accepted and everything was written. With no frames, the error is
// ErrNoFrames and the Result still lists the rejections.
func Assemble(ctx context.Context, fnames []string, p Params, out string, opts Options) (*Result, error) {
	lg := common.Quiet(opts.Logger)
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	res := &Result{Out: out}
	err := pdb.WriteFileAtomic(out, func(w io.Writer) error {
		asm := New(w, lg)
		for start := 0; start < len(fnames); start += opts.Workers {
			end := start + opts.Workers
			if end > len(fnames) {
				end = len(fnames)
			}
			window := make([]built, end-start)
			g, gctx := errgroup.WithContext(ctx)
			for i := start; i < end; i++ {
				i := i
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					b, err := buildOne(fnames[i], p, &opts)
					window[i-start] = b
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			for j, b := range window {
				ndx := start + j
				if b.err == nil {
					b.err = asm.Add(ndx, b.frame)
					var am *common.AtomCountMismatchError
					if b.err != nil && !errors.As(b.err, &am) {
						return b.err
					}
				} else {
					lg.Printf("model %d (%s) skipped: %v", ndx, fnames[ndx], b.err)
				}
				if b.err != nil {
					res.Rejected = append(res.Rejected, Rejection{Ndx: ndx, File: fnames[ndx], Err: b.err})
				} else {
					res.Accepted = append(res.Accepted, ndx)
				}
			}
		}
		res.NAtom = asm.Expected()
		return asm.Finish()
	})
	if err != nil {
		if errors.Is(err, common.ErrNoFrames) {
			lg.Printf("%s: none of %d models gave a frame, nothing written", out, len(fnames))
		}
		return res, err
	}
	lg.Printf("%s: %d frames of %d atoms, %d models skipped", out, len(res.Accepted), res.NAtom, len(res.Rejected))
	return res, nil
}
