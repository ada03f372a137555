// brokenio is a wrapper around an io.ReadCloser that breaks on purpose.
// Typical use: You get a file pointer or a reader from a compressed
// source and write
// reader = brokenio.NewReader(reader)
// Everything then functions as before, until the reader has handed out
// the number of bytes it was told to. After that, every read fails.
// Setting zeroFile makes the first read return nothing, which is what
// one sees on a zero length file.

package brokenio

import (
	"errors"
	"fmt"
	"io"
)

// ErrBroken is what a broken read returns.
var ErrBroken = errors.New("brokenio: artificial read failure")

// BrknRdrClsr counts what goes through and fails when told to.
type BrknRdrClsr struct {
	rdr_orig  io.ReadCloser // Wrapped reader
	failAfter int           // fail once this many bytes are read, < 0 means never
	zeroFile  bool
	nCalled   int
	nByte     int
	verbose   bool
}

// NewReader returns a new Reader, a wrapper around the old one. It does
// not fail until told to.
func NewReader(rIn io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{rdr_orig: rIn, failAfter: -1}
}

// SetVerbose sets the verbosity flag to true or false
func (r *BrknRdrClsr) SetVerbose(newV bool) { r.verbose = newV }

// SetFailAfter says how many bytes are delivered before reads fail.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// SetZeroFile makes the first read return EOF.
func (r *BrknRdrClsr) SetZeroFile(z bool) { r.zeroFile = z }

// NByte is the number of bytes handed out so far.
func (r *BrknRdrClsr) NByte() int { return r.nByte }

// Read wraps the original reader and sums up the amount of data that
// has gone through. A read that would cross the limit is cut short and
// returns ErrBroken.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.zeroFile {
		r.nCalled++
		return 0, io.EOF
	}
	r.nCalled++
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err = r.rdr_orig.Read(p)
	r.nByte += n
	if err == nil && r.failAfter >= 0 && r.nByte >= r.failAfter {
		err = ErrBroken
	}
	return n, err
}

// Close wraps the original Close method.
func (r *BrknRdrClsr) Close() error {
	if r.verbose {
		fmt.Println("Closing", r.nCalled, "calls and", r.nByte, "bytes")
	}
	return r.rdr_orig.Close()
}
