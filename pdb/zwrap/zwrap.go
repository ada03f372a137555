// Package zwrap takes a file pointer and, if the contents are gzipped,
// wraps it so reads come from the decompressor. Upon calling Close, the
// decompressor will be closed, followed by the underlying file.
// Model files from predictors are often stored as .pdb.gz, so everything
// that reads coordinates goes through here.

package zwrap

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
)

var gzMagic = []byte{0x1f, 0x8b}

type FpGzip struct { // This is what we return.
	fp   io.Closer
	rdr  io.Reader // buffered view of fp, or the decompressor on top of it
	zrdr *gzip.Reader
}

// Close closes the decompressor, then the underlying file.
func (fc *FpGzip) Close() error {
	var s string
	if fc.zrdr != nil {
		if e := fc.zrdr.Close(); e != nil {
			s = e.Error()
		}
	}
	if e := fc.fp.Close(); e != nil {
		s = s + " " + e.Error()
	}
	if s == "" {
		return nil
	}
	return errors.New(s)
}

// Read makes sure we read from the decompressed stream when there is one.
func (fc *FpGzip) Read(p []byte) (int, error) { return fc.rdr.Read(p) }

// Compressed says if we are decompressing.
func (fc *FpGzip) Compressed() bool { return fc.zrdr != nil }

// WrapMaybe looks at the first two bytes of the stream. If they are the
// gzip magic number, reads go through a decompressor. Otherwise the
// stream is passed back untouched. Nothing has to seek.
func WrapMaybe(fpIn io.ReadCloser) (*FpGzip, error) {
	brdr := bufio.NewReader(fpIn)
	r := &FpGzip{fp: fpIn, rdr: brdr}
	head, err := brdr.Peek(len(gzMagic))
	if err != nil && err != io.EOF { // short files are fine, just not gzipped
		return nil, err
	}
	if len(head) == len(gzMagic) && head[0] == gzMagic[0] && head[1] == gzMagic[1] {
		if r.zrdr, err = gzip.NewReader(brdr); err != nil {
			return nil, err
		}
		r.rdr = r.zrdr
	}
	return r, nil
}

// Open opens a file and wraps it. On error, the file is closed.
func Open(fname string) (*FpGzip, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	r, err := WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, errors.New("reading " + fname + " " + err.Error())
	}
	return r, nil
}
