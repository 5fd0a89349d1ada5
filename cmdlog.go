// Package cmdlog keeps a bounded, in-memory history of terminator-delimited
// commands and serves byte-range reads, absolute seeks and command-indexed
// seeks against it.
//
// Writers append raw bytes. Bytes become visible to readers once a
// terminator ('\n' by default) completes a command; when the configured
// capacity is exceeded the oldest command is evicted. Offsets address the
// concatenation of all retained commands, oldest first.
//
// Example usage:
//
//	log, err := cmdlog.Open(nil)
//	if err != nil {
//		return err
//	}
//	defer log.Close()
//
//	s := log.NewSession(ctx)
//	if _, err := s.Write([]byte("hello\n")); err != nil {
//		return err
//	}
//
//	history, err := io.ReadAll(s)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%s", history)
//
// All methods are safe for concurrent use. Operations that wait for the
// log's lock take a context; cancelling it makes the wait fail with
// ErrInterrupted without changing anything.
package cmdlog

import (
	"context"

	"github.com/MikhailWahib/cmdlog/internal/config"
	"github.com/MikhailWahib/cmdlog/internal/engine"
)

// Config is an alias for config.Config, re-exported for user convenience.
type Config = config.Config

// DefaultConfig returns a Config struct populated with default values. Re-exported for user convenience.
var DefaultConfig = config.DefaultConfig

// LoadConfig reads a YAML configuration file on top of the defaults.
var LoadConfig = config.Load

// Stats is a point-in-time view of a Log.
type Stats = engine.Stats

// Errors returned by Log and Session operations. Compare with errors.Is.
var (
	ErrOutOfMemory     = engine.ErrOutOfMemory
	ErrInvalidArgument = engine.ErrInvalidArgument
	ErrInterrupted     = engine.ErrInterrupted
	ErrClosed          = engine.ErrClosed
)

// Log is a process-wide command history shared by any number of sessions.
type Log struct {
	engine *engine.Engine
}

// Open creates an empty Log. A nil cfg uses DefaultConfig; zero fields are
// filled from the defaults.
func Open(cfg *Config) (*Log, error) {
	e, err := engine.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return &Log{engine: e}, nil
}

// Write appends raw bytes. Every command completed by p is stored, possibly
// evicting older ones; trailing bytes without a terminator are held until a
// later write completes them. It returns len(p) or ErrOutOfMemory, in which
// case nothing from p was taken.
func (l *Log) Write(ctx context.Context, p []byte) (int, error) {
	return l.engine.Write(ctx, p)
}

// ReadAt copies stored bytes from logical offset off into p. A zero count
// means off is at or past the end of the history.
func (l *Log) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	return l.engine.ReadAt(ctx, p, off)
}

// Seek resolves offset relative to whence (io.SeekStart, io.SeekCurrent or
// io.SeekEnd) for a caller positioned at cur. It fails with
// ErrInvalidArgument if the result falls outside [0, size].
func (l *Log) Seek(ctx context.Context, cur, offset int64, whence int) (int64, error) {
	return l.engine.Seek(ctx, cur, offset, whence)
}

// SeekToCommand returns the offset of byte intra within the command at
// ordinal index, where 0 is the oldest retained command.
func (l *Log) SeekToCommand(ctx context.Context, index, intra int) (int64, error) {
	return l.engine.SeekToCommand(ctx, index, intra)
}

// Stats reports the current contents and lifetime counters.
func (l *Log) Stats(ctx context.Context) (Stats, error) {
	return l.engine.Stats(ctx)
}

// Close releases all stored commands. It waits for in-flight operations.
// After Close every operation returns ErrClosed.
func (l *Log) Close() error {
	return l.engine.Close()
}
