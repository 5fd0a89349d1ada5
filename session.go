package cmdlog

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// Session is one reader/writer's view of a Log, the way an open file
// descriptor is a view of a device. It owns a read position; the Log does
// not. A Session is not safe for concurrent use, but many sessions may
// share a Log.
type Session struct {
	ctx context.Context
	log *Log
	pos int64
}

var (
	_ io.ReadWriteSeeker = (*Session)(nil)
	_ io.ReaderAt        = (*Session)(nil)
)

// NewSession opens a session positioned at the start of the history. ctx
// bounds every lock wait the session performs.
func (l *Log) NewSession(ctx context.Context) *Session {
	return &Session{ctx: ctx, log: l}
}

// Read copies history from the session position and advances it by the
// number of bytes copied. It returns io.EOF at the end of the history.
func (s *Session) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := s.log.ReadAt(s.ctx, p, s.pos)
	if err != nil {
		return 0, errors.Wrapf(err, "reading at offset %d", s.pos)
	}
	if n == 0 {
		return 0, io.EOF
	}
	s.pos += int64(n)
	return n, nil
}

// ReadAt reads from an explicit offset without moving the session position.
func (s *Session) ReadAt(p []byte, off int64) (int, error) {
	n, err := s.log.ReadAt(s.ctx, p, off)
	if err != nil {
		return 0, errors.Wrapf(err, "reading at offset %d", off)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Write appends p to the log. The session position does not move.
func (s *Session) Write(p []byte) (int, error) {
	n, err := s.log.Write(s.ctx, p)
	return n, errors.Wrapf(err, "writing %d bytes", len(p))
}

// Seek moves the session position. On failure the position is unchanged.
func (s *Session) Seek(offset int64, whence int) (int64, error) {
	pos, err := s.log.Seek(s.ctx, s.pos, offset, whence)
	if err != nil {
		return s.pos, errors.Wrapf(err, "seeking to %d from %d", offset, whence)
	}
	s.pos = pos
	return pos, nil
}

// SeekTo positions the session at byte intra of the command at ordinal
// index. On failure the position is unchanged.
func (s *Session) SeekTo(index, intra int) (int64, error) {
	pos, err := s.log.SeekToCommand(s.ctx, index, intra)
	if err != nil {
		return s.pos, errors.Wrapf(err, "seeking to command %d offset %d", index, intra)
	}
	s.pos = pos
	return pos, nil
}

// Pos returns the session position.
func (s *Session) Pos() int64 {
	return s.pos
}
