// 4 Apr 2024
/*

trajalign superposes every model of a multi-model pdb file on the first
model and writes the result.

Usage:
 trajalign [options] in.pdb out.pdb

The fit uses atoms of standard amino acids with the given names, by
default the backbone. Every model must give the same number of these
atoms, in the same order. The rotation and translation are applied to all
atoms of a model, glycans included. out.pdb is only written if every model
could be fitted.

Flags:
  -a N,CA,C,O
	atom names for fitting
  -l stderr
	where log messages go
  -r file
	write the rmsd of each model before and after fitting, - for
	standard output

*/
package main
