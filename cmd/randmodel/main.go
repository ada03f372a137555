// 12 Mar 2024

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	. "github.com/andrew-torda/glyco_traj/pkg/common"
	"github.com/andrew-torda/glyco_traj/pkg/randmodel"
)

func main() {
	f := flag.NewFlagSet("randmodel", flag.ExitOnError)
	const iseed int64 = 1637
	var args randmodel.Args

	f.Int64Var(&args.Iseed, "r", iseed, "random number seed")
	f.IntVar(&args.NChain, "c", 3, "number of protein chains")
	f.IntVar(&args.ChainLen, "l", 50, "residues per chain")
	f.IntVar(&args.StartRes, "s", 1, "number of the first residue")
	f.IntVar(&args.NGlycan, "g", 12, "number of glycan residues")
	f.Float64Var(&args.Noise, "j", 0.5, "jiggle coordinates by this much")
	if err := f.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(f.Output(), err)
		os.Exit(ExitUsageError)
	}
	if f.NArg() != 3 {
		fmt.Fprintln(f.Output(), "Wrong number of args\nrandmodel [..] dir name nmodel")
		f.Usage()
		os.Exit(ExitUsageError)
	}
	dir := f.Arg(0)
	args.Name = f.Arg(1)
	const emsg = "Failed converting %s to positive integer\n"
	if n, err := strconv.ParseUint(f.Arg(2), 10, 32); err != nil {
		fmt.Fprintf(os.Stderr, emsg, f.Arg(2))
		os.Exit(ExitFailure)
	} else {
		args.NModel = int(n)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	if _, _, err := randmodel.WriteSet(dir, &args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
