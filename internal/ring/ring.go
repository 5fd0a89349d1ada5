// Package ring implements the fixed-capacity circular array that holds a
// command log's completed records, along with the offset arithmetic used to
// read from and seek within it.
//
// Logical offsets address the concatenation of all occupied slots, oldest
// record first. A Ring is not safe for concurrent use; callers serialize
// access.
package ring

import (
	"errors"

	"github.com/MikhailWahib/cmdlog/internal/record"
)

var (
	// ErrInvalidArgument is returned when a seek or command position falls
	// outside the current contents.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfRange is returned by At for an ordinal that is not occupied.
	ErrOutOfRange = errors.New("record ordinal out of range")
)

// Ring is a circular array of records. head is the next slot to fill and
// tail the oldest occupied slot. Until the first wraparound, slots fill from
// index 0 upward, so the occupied count is head unless full is set.
type Ring struct {
	slots []record.Record
	head  int
	tail  int
	full  bool
}

// New creates an empty Ring with the given number of slots.
func New(capacity int) *Ring {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Ring{
		slots: make([]record.Record, capacity),
	}
}

// Append stores rec in the next slot. When the ring is full the oldest
// record is displaced and returned with ok set.
func (r *Ring) Append(rec record.Record) (evicted record.Record, ok bool) {
	if r.full {
		evicted, ok = r.slots[r.tail], true
		r.slots[r.tail] = nil
		r.tail = r.advance(r.tail)
	}

	r.slots[r.head] = rec
	r.head = r.advance(r.head)
	r.full = r.head == r.tail
	return evicted, ok
}

// Len returns the number of occupied slots.
func (r *Ring) Len() int {
	if r.full {
		return len(r.slots)
	}
	return r.head
}

// Cap returns the number of slots.
func (r *Ring) Cap() int {
	return len(r.slots)
}

// Size returns the total length of all occupied slots. It is recomputed on
// every call.
func (r *Ring) Size() int64 {
	var total int64
	for i, n := 0, r.Len(); i < n; i++ {
		total += int64(r.slot(i).Len())
	}
	return total
}

// At returns the record at logical ordinal i, where 0 is the oldest.
func (r *Ring) At(i int) (record.Record, error) {
	if i < 0 || i >= r.Len() {
		return nil, ErrOutOfRange
	}
	return r.slot(i), nil
}

// Records returns the occupied records, oldest first. The slice is new but
// the records are shared with the ring.
func (r *Ring) Records() []record.Record {
	n := r.Len()
	out := make([]record.Record, n)
	for i := 0; i < n; i++ {
		out[i] = r.slot(i)
	}
	return out
}

// Reset releases every occupied slot and empties the ring.
func (r *Ring) Reset() {
	for i := range r.slots {
		r.slots[i] = nil
	}
	r.head, r.tail, r.full = 0, 0, false
}

func (r *Ring) slot(i int) record.Record {
	return r.slots[(r.tail+i)%len(r.slots)]
}

func (r *Ring) advance(i int) int {
	return (i + 1) % len(r.slots)
}
