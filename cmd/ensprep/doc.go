// 4 Apr 2024
/*

ensprep takes the models built for a glycoprotein, turns them into one
multi-model pdb file and superposes the models on the first one.

Usage:
 ensprep [options] name alignment.ali model1.pdb model2.pdb ...
 ensprep [options] name alignment.ali 'models/*.pdb'
 ensprep [options] -b batchfile

For each ensemble, three files are written to the output directory:
name.pdb (frames as built), name_aligned.pdb (frames after fitting) and
name_rmsd.txt (deviation of each frame from the first, before and after
fitting).

Models are taken in order of the last number in their file name, so
model.B99990002.pdb comes before model.B99990010.pdb.

The alignment file is in pir format. The entry whose description line
starts with "sequence:" is the one for the models. Chains are separated
by '/'. Two breaks means three chains, five means six. Anything else is
an error.

Each model is cut into protein chains and three groups of glycan
residues. The glycan groups come from splitting the range of
heteroatom residue numbers of the first model into thirds. The pieces are
renumbered and put back together. A model missing a piece, or giving a
different number of atoms to the first good one, is skipped and logged.

A batch file has one ensemble per line:
 name alignment_file model_glob
Paths are relative to the batch file. Lines starting with # are ignored.
If any ensemble fails, the others are still done, and the exit status is
non-zero.

Flags:
  -a N,CA,C,O
	atoms used for fitting, from standard residues only
  -b batchfile
  -c C
	chain whose first residue number is where chain numbering starts
  -l stderr
	where log messages go: stdout, stderr, a file name or "" for nowhere
  -n
	do not align
  -o dir
	output directory
  -q sequence:
	marks the query entry in the alignment file
  -spill dir
	write fragments to files in temporary directories under dir and read
	them back. Slower, but useful for looking at the pieces.
  -w N
	number of models processed at once

*/
package main
