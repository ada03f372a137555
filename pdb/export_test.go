package pdb

// Let tests see the format guesser.
const (
	Old_fmt   = old_fmt
	Mmcif_fmt = mmcif_fmt
)

var OldOrMmcif = oldOrMmcif
