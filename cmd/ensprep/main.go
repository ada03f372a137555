// 4 Apr 2024

package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/fatih/color"

	. "github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/prepens"
)

// usage
func usage() int {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[opts] name file.ali model1.pdb model2.pdb ...")
	fmt.Fprintln(os.Stderr, "      ", path.Base(os.Args[0]), "[opts] -b batchfile")
	flag.PrintDefaults()
	return (ExitUsageError)
}

func main() {
	flags := prepens.DefaultFlags()
	var batch string
	flag.StringVar(&batch, "b", "", "batch file, one ensemble per line")
	flag.StringVar(&flags.Prefix, "q", flags.Prefix, "start of the description line of the query in the alignment")
	flag.StringVar(&flags.StartChain, "c", flags.StartChain, "chain whose first residue number is the numbering origin")
	flag.StringVar(&flags.AtomNames, "a", flags.AtomNames, "atom names for fitting, comma separated")
	flag.IntVar(&flags.Workers, "w", flags.Workers, "models processed at once")
	flag.StringVar(&flags.SpillDir, "spill", "", "write fragments to files under this directory")
	flag.StringVar(&flags.OutDir, "o", flags.OutDir, "output directory")
	flag.StringVar(&flags.LogWhere, "l", "stderr", "log to stdout, stderr or a file name, \"\" for nowhere")
	flag.BoolVar(&flags.NoAlign, "n", false, "build ensembles, but do not align them")
	flag.Parse()

	if batch == "" && flag.NArg() < 3 {
		os.Exit(usage())
	}
	ocs, err := prepens.Mymain(&flags, batch, flag.Args())
	red := color.New(color.FgRed, color.Bold)
	for _, oc := range ocs {
		if oc != nil && oc.Err != nil {
			red.Fprintln(os.Stderr, oc.Err)
		}
	}
	if err != nil {
		red.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
