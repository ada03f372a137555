// 4 Apr 2024

package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/fatih/color"

	. "github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/trajalign"
)

// usage
func usage() int {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[opts] in.pdb out.pdb")
	flag.PrintDefaults()
	return (ExitUsageError)
}

func main() {
	names := strings.Join(trajalign.BackboneNames, ",")
	var logwhere, report string
	flag.StringVar(&names, "a", names, "atom names for fitting, comma separated")
	flag.StringVar(&logwhere, "l", "stderr", "log to stdout, stderr or a file name")
	flag.StringVar(&report, "r", "", "write rmsd before and after fitting to this file, - for stdout")
	flag.Parse()
	if flag.NArg() != 2 {
		os.Exit(usage())
	}
	red := color.New(color.FgRed)
	lg, err := LogWhere(logwhere)
	if err != nil {
		red.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	sel := trajalign.Selection(strings.Split(names, ","))
	res, err := trajalign.AlignFile(flag.Arg(0), flag.Arg(1), sel, lg)
	if err != nil {
		red.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	if report != "" {
		w := os.Stdout
		if report != "-" {
			if w, err = os.Create(report); err != nil {
				red.Fprintln(os.Stderr, err)
				os.Exit(ExitFailure)
			}
		}
		err = trajalign.Report(w, res)
		if w != os.Stdout {
			if e := w.Close(); err == nil {
				err = e
			}
		}
		if err != nil {
			red.Fprintln(os.Stderr, err)
			os.Exit(ExitFailure)
		}
	}
	os.Exit(ExitSuccess)
}
