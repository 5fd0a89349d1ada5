package ring

import "io"

// ReadAt copies bytes starting at logical offset off into p, continuing
// across consecutive records until p is full or the data runs out. It returns
// the number of bytes copied; an offset at or past Size yields zero.
func (r *Ring) ReadAt(p []byte, off int64) int {
	if off < 0 || len(p) == 0 {
		return 0
	}

	var (
		n   int
		cum int64
	)
	for i, count := 0, r.Len(); i < count && n < len(p); i++ {
		rec := r.slot(i)
		end := cum + int64(rec.Len())
		if off < end {
			start := int64(0)
			if off > cum {
				start = off - cum
			}
			n += copy(p[n:], rec[start:])
		}
		cum = end
	}
	return n
}

// ResolveSeek computes the absolute offset for a seek of offset relative to
// whence, given the caller's current position cur and the current total size.
// The result must fall within [0, size].
func ResolveSeek(cur, offset int64, whence int, size int64) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = cur
	case io.SeekEnd:
		base = size
	default:
		return 0, ErrInvalidArgument
	}

	pos := base + offset
	if pos < 0 || pos > size {
		return 0, ErrInvalidArgument
	}
	return pos, nil
}
