// 12 Mar 2024

/*
Randmodel makes synthetic glycoprotein models for testing the code.
Usage:

	randmodel [options] dir name nmodel

will write nmodel pdb files name.B00000001.pdb ... and an alignment file
name.ali into dir.

Flags:

	-c
		number of protein chains. 3 and 6 are what ensprep can handle.
	-g
		number of glycan residues. They come after the protein, as HETATM
		records, in a chain of their own.
	-j
		size of the random jiggle added to each coordinate, after the first
		model
	-l
		residues per chain
	-r
		random number seed
	-s
		number of the first residue. Numbering runs on across chains.

Every model has the same sequence and the same atoms. Apart from the
first, each one is rotated and shifted somewhere random and jiggled, so
there is something for the fitting to do.
*/
package main
