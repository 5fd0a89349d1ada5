package record

import (
	"bytes"
	"errors"
)

// ErrOutOfMemory is returned when assembling a record would exceed the
// allocation budget. The assembler is left exactly as before the call.
var ErrOutOfMemory = errors.New("out of memory assembling record")

// Assembler accumulates raw bytes into records. Bytes that are not yet
// followed by a terminator stay pending until a later Feed completes them.
//
// An Assembler is not safe for concurrent use; callers serialize access.
type Assembler struct {
	terminator byte
	maxSize    int
	pending    []byte
}

// NewAssembler creates an Assembler splitting on terminator. maxSize caps
// both completed records and the pending buffer; zero disables the cap.
func NewAssembler(terminator byte, maxSize int) *Assembler {
	return &Assembler{
		terminator: terminator,
		maxSize:    maxSize,
	}
}

// Feed consumes p and returns the records it completes, oldest first.
// All of p is consumed on success. On failure nothing is consumed and no
// record is returned.
func (a *Assembler) Feed(p []byte) ([]Record, error) {
	var recs []Record
	rest := p
	carry := len(a.pending)

	for {
		i := bytes.IndexByte(rest, a.terminator)
		if i < 0 {
			break
		}
		size := carry + i + 1
		if a.exceeds(size) {
			return nil, ErrOutOfMemory
		}

		rec := make(Record, 0, size)
		if carry > 0 {
			rec = append(rec, a.pending...)
			carry = 0
		}
		rec = append(rec, rest[:i+1]...)
		recs = append(recs, rec)
		rest = rest[i+1:]
	}

	if a.exceeds(carry + len(rest)) {
		return nil, ErrOutOfMemory
	}

	// Records hold their own copies, so the pending storage can be reused.
	if len(recs) > 0 {
		a.pending = a.pending[:0]
	}
	a.pending = append(a.pending, rest...)
	return recs, nil
}

// Pending returns the number of bytes waiting for a terminator.
func (a *Assembler) Pending() int {
	return len(a.pending)
}

// Reset drops any pending bytes.
func (a *Assembler) Reset() {
	a.pending = nil
}

func (a *Assembler) exceeds(size int) bool {
	return a.maxSize > 0 && size > a.maxSize
}
