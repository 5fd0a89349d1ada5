package record

// Record is one terminator-delimited write unit. It always ends with its
// terminator byte, so a stored record is never empty. Records are immutable
// once assembled and never alias caller-supplied buffers.
type Record []byte

// Len returns the size of the record in bytes, terminator included.
func (r Record) Len() int {
	return len(r)
}

// Payload returns the record without its trailing terminator.
func (r Record) Payload() []byte {
	if len(r) == 0 {
		return nil
	}
	return r[:len(r)-1]
}
