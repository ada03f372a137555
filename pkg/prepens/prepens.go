// 4 Apr 2024

// Package prepens runs the whole pipeline for an ensemble of models:
// read the alignment, work out glycan ranges and numbering from a sample
// model, build the ensemble file and align it. A batch is a list of
// ensembles, each of which lives or dies on its own.
package prepens

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/andrew-torda/glyco_traj/pdb"
	"github.com/andrew-torda/glyco_traj/pdb/cmmn"
	"github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/ensemble"
	"github.com/andrew-torda/glyco_traj/pkg/glycan"
	"github.com/andrew-torda/glyco_traj/pkg/pir"
	"github.com/andrew-torda/glyco_traj/pkg/renum"
	"github.com/andrew-torda/glyco_traj/pkg/trajalign"
)

// CmdFlag is literally command line flags after parsing
type CmdFlag struct {
	Prefix     string // marks the query entry in the alignment file
	StartChain string // chain whose first residue number is the numbering origin
	AtomNames  string // comma separated, atoms used for fitting
	Workers    int
	SpillDir   string // if set, fragments go through files here
	OutDir     string
	LogWhere   string
	NoAlign    bool
}

// DefaultFlags gives what the command line gives without options.
func DefaultFlags() CmdFlag {
	return CmdFlag{
		Prefix:     pir.DfltPrefix,
		StartChain: "C",
		AtomNames:  strings.Join(trajalign.BackboneNames, ","),
		Workers:    ensemble.DefaultOptions().Workers,
		OutDir:     ".",
	}
}

// Job is one ensemble. Models are listed, or come from Glob. Glob is
// expanded when the job runs, so a pattern that matches nothing only
// breaks its own ensemble.
type Job struct {
	Name   string
	Ali    string
	Glob   string
	Models []string
}

// files gives the job's model files, sorted.
func (job *Job) files() ([]string, error) {
	fnames := job.Models
	if len(fnames) == 0 {
		var err error
		if fnames, err = filepath.Glob(job.Glob); err != nil {
			return nil, err
		}
	}
	if len(fnames) == 0 {
		return nil, fmt.Errorf("no model files match %s", job.Glob)
	}
	return SortModels(fnames), nil
}

// ReadBatch reads a batch file. Each line is
//
//	name alignment_file model_glob
//
// Blank lines and lines starting with # are ignored. Relative paths are
// taken relative to dir.
func ReadBatch(r io.Reader, dir string) ([]Job, error) {
	var jobs []Job
	scnnr := bufio.NewScanner(r)
	for n := 1; scnnr.Scan(); n++ {
		line := strings.TrimSpace(scnnr.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 3 {
			return nil, fmt.Errorf("batch line %d: want 3 fields, got %d: %q", n, len(f), line)
		}
		rel := func(s string) string {
			if filepath.IsAbs(s) {
				return s
			}
			return filepath.Join(dir, s)
		}
		jobs = append(jobs, Job{Name: f[0], Ali: rel(f[1]), Glob: rel(f[2])})
	}
	return jobs, scnnr.Err()
}

var lastInt = regexp.MustCompile(`(\d+)\D*$`)

// modelNum is the last integer in the base name, or -1.
func modelNum(fname string) int {
	m := lastInt.FindStringSubmatch(filepath.Base(fname))
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}

// SortModels returns the names ordered by the last number in the file
// name, so model_2 comes before model_10. Ties go by name.
func SortModels(fnames []string) []string {
	r := append([]string(nil), fnames...)
	sort.SliceStable(r, func(i, j int) bool {
		ni, nj := modelNum(r[i]), modelNum(r[j])
		if ni != nj {
			return ni < nj
		}
		return r[i] < r[j]
	})
	return r
}

// Outcome is what happened to one ensemble.
type Outcome struct {
	Job      Job
	Raw      string // ensemble before fitting
	Aligned  string
	Report   string
	NoFrames bool
	Ens      *ensemble.Result
	Align    *trajalign.Result
	Err      error
}

// sample finds the first model, in order, that can be read.
func sample(fnames []string, lg *log.Logger) (*cmmn.Model, error) {
	for _, f := range fnames {
		m, err := pdb.ReadModel(f)
		if err == nil {
			return m, nil
		}
		lg.Printf("cannot use %s as sample: %v", f, err)
	}
	return nil, errors.New("no model could be read")
}

// Setup works out everything that is fixed for an ensemble. Any error
// here is fatal to the ensemble.
func Setup(job Job, fnames []string, flags *CmdFlag, lg *log.Logger) (ensemble.Params, error) {
	var p ensemble.Params
	ap, err := pir.Analyze(job.Ali, flags.Prefix)
	if err != nil {
		return p, err
	}
	m, err := sample(fnames, lg)
	if err != nil {
		return p, err
	}
	gp, err := glycan.FromModel(m)
	if err != nil {
		return p, err
	}
	start, err := renum.StartingResNum(m, flags.StartChain)
	if err != nil {
		return p, fmt.Errorf("finding starting residue number: %w", err)
	}
	p = ensemble.Params{Topology: ap.Topology, Glycans: gp,
		Offsets: renum.Offsets{Start: start, FirstChainLen: ap.FirstChainLen}}
	lg.Printf("%s: %s, first chain %d residues, chain %s starts at %d, glycans %v %v %v",
		job.Name, ap.Topology, ap.FirstChainLen, flags.StartChain, start, gp.G[0], gp.G[1], gp.G[2])
	return p, nil
}

// atomNames splits the comma separated list.
func atomNames(s string) []string {
	var r []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			r = append(r, n)
		}
	}
	return r
}

// RunEnsemble does one ensemble from start to finish. A returned error
// means the ensemble failed and none of its output files exist, not even
// ones left by an earlier run. An ensemble where no model gave a frame is
// not an error, but has no output.
func RunEnsemble(ctx context.Context, job Job, flags *CmdFlag, lg *log.Logger) (*Outcome, error) {
	lg = common.Quiet(lg)
	oc := &Outcome{Job: job,
		Raw:     filepath.Join(flags.OutDir, job.Name+".pdb"),
		Aligned: filepath.Join(flags.OutDir, job.Name+"_aligned.pdb"),
		Report:  filepath.Join(flags.OutDir, job.Name+"_rmsd.txt"),
	}
	rmOld := func(fnames ...string) {
		for _, f := range fnames {
			if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
				lg.Println("removing old output:", err)
			}
		}
	}
	fail := func(err error) (*Outcome, error) {
		rmOld(oc.Raw, oc.Aligned, oc.Report)
		oc.Err = fmt.Errorf("ensemble %s: %w", job.Name, err)
		return oc, oc.Err
	}
	fnames, err := job.files()
	if err != nil {
		return fail(err)
	}
	p, err := Setup(job, fnames, flags, lg)
	if err != nil {
		return fail(err)
	}
	opts := ensemble.Options{Workers: flags.Workers, SpillDir: flags.SpillDir, Logger: lg}
	if oc.Ens, err = ensemble.Assemble(ctx, fnames, p, oc.Raw, opts); err != nil {
		if errors.Is(err, common.ErrNoFrames) {
			lg.Printf("%s: no frames, not aligning", job.Name)
			oc.NoFrames = true
			rmOld(oc.Raw, oc.Aligned, oc.Report)
			return oc, nil
		}
		return fail(err)
	}
	if flags.NoAlign {
		rmOld(oc.Aligned, oc.Report) // would not match the new raw file
		return oc, nil
	}
	sel := trajalign.Selection(atomNames(flags.AtomNames))
	if oc.Align, err = trajalign.AlignFile(oc.Raw, oc.Aligned, sel, lg); err != nil {
		return fail(err)
	}
	if err = pdb.WriteFileAtomic(oc.Report, func(w io.Writer) error {
		return trajalign.Report(w, oc.Align)
	}); err != nil {
		return fail(err)
	}
	return oc, nil
}

// RunBatch runs jobs one after the other. A failed ensemble is logged
// and the next one started. It returns the outcomes and the number of
// ensembles that failed.
func RunBatch(ctx context.Context, jobs []Job, flags *CmdFlag, lg *log.Logger) ([]*Outcome, int) {
	lg = common.Quiet(lg)
	var ocs []*Outcome
	nfail := 0
	for _, job := range jobs {
		if ctx.Err() != nil {
			ocs = append(ocs, &Outcome{Job: job, Err: ctx.Err()})
			nfail++
			continue
		}
		oc, err := RunEnsemble(ctx, job, flags, lg)
		if err != nil {
			lg.Println(err)
			nfail++
		}
		ocs = append(ocs, oc)
	}
	return ocs, nfail
}

// ErrSomeFailed says at least one ensemble of a batch failed.
var ErrSomeFailed = errors.New("some ensembles failed")

// Mymain runs a batch file, or a single ensemble given as
// name, alignment file and either model files or one quoted glob.
func Mymain(flags *CmdFlag, batchFile string, args []string) ([]*Outcome, error) {
	lg, err := common.LogWhere(flags.LogWhere)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(flags.OutDir, 0755); err != nil {
		return nil, err
	}
	var jobs []Job
	if batchFile != "" {
		fp, err := os.Open(batchFile)
		if err != nil {
			return nil, err
		}
		jobs, err = ReadBatch(fp, filepath.Dir(batchFile))
		fp.Close()
		if err != nil {
			return nil, err
		}
	} else {
		if len(args) < 3 {
			return nil, errors.New("need a name, an alignment file and model files")
		}
		job := Job{Name: args[0], Ali: args[1]}
		if len(args) == 3 && strings.ContainsAny(args[2], "*?[") {
			job.Glob = args[2]
		} else {
			job.Models = args[2:]
		}
		jobs = []Job{job}
	}
	ocs, nfail := RunBatch(context.Background(), jobs, flags, lg)
	if nfail > 0 {
		return ocs, fmt.Errorf("%w: %d of %d", ErrSomeFailed, nfail, len(jobs))
	}
	return ocs, nil
}
