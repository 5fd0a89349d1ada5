// Package engine ties the record assembler and the ring together behind a
// single lock, providing the write, read, seek and seek-to-command operations
// shared by every front end.
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/MikhailWahib/cmdlog/internal/config"
	"github.com/MikhailWahib/cmdlog/internal/record"
	"github.com/MikhailWahib/cmdlog/internal/ring"
)

// Engine is the shared command log. Every operation, teardown included,
// runs under one lock; there is no separate path for readers. The engine
// keeps no per-caller state: read positions belong to the caller.
type Engine struct {
	// guard is a semaphore of weight one so lock waits can be cancelled.
	guard *semaphore.Weighted

	ring *ring.Ring
	asm  *record.Assembler

	closed   bool
	appended uint64
	evicted  uint64
}

// Stats is a point-in-time view of an Engine.
type Stats struct {
	Records  int
	Capacity int
	Size     int64
	Pending  int
	Appended uint64
	Evicted  uint64
}

// NewEngine creates an empty Engine. A nil cfg uses the defaults.
func NewEngine(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := *cfg
	c.FillDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		guard: semaphore.NewWeighted(1),
		ring:  ring.New(c.Capacity),
		asm:   record.NewAssembler(c.Terminator, c.MaxRecordSize),
	}, nil
}

// Write feeds p to the assembler and appends every record it completes, in
// order. Each append may evict the oldest record. On success all of p is
// consumed; on ErrOutOfMemory nothing is.
func (e *Engine) Write(ctx context.Context, p []byte) (int, error) {
	if err := e.lock(ctx); err != nil {
		return 0, err
	}
	defer e.unlock()

	if e.closed {
		return 0, ErrClosed
	}

	recs, err := e.asm.Feed(p)
	if err != nil {
		return 0, err
	}
	for _, rec := range recs {
		if _, evicted := e.ring.Append(rec); evicted {
			e.evicted++
		}
		e.appended++
	}
	return len(p), nil
}

// ReadAt copies stored bytes starting at logical offset off into p and
// returns how many were copied. Zero means off is at or past the end.
func (e *Engine) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrInvalidArgument
	}
	if err := e.lock(ctx); err != nil {
		return 0, err
	}
	defer e.unlock()

	if e.closed {
		return 0, ErrClosed
	}
	return e.ring.ReadAt(p, off), nil
}

// Seek resolves offset relative to whence against the caller's current
// position cur. The result lies within [0, Size].
func (e *Engine) Seek(ctx context.Context, cur, offset int64, whence int) (int64, error) {
	if err := e.lock(ctx); err != nil {
		return 0, err
	}
	defer e.unlock()

	if e.closed {
		return 0, ErrClosed
	}
	return ring.ResolveSeek(cur, offset, whence, e.ring.Size())
}

// SeekToCommand resolves byte intra of the command at ordinal index, oldest
// first, to a logical offset.
func (e *Engine) SeekToCommand(ctx context.Context, index, intra int) (int64, error) {
	if err := e.lock(ctx); err != nil {
		return 0, err
	}
	defer e.unlock()

	if e.closed {
		return 0, ErrClosed
	}
	return e.ring.CommandOffset(index, intra)
}

// Stats reports the current contents and lifetime counters.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	if err := e.lock(ctx); err != nil {
		return Stats{}, err
	}
	defer e.unlock()

	if e.closed {
		return Stats{}, ErrClosed
	}
	return Stats{
		Records:  e.ring.Len(),
		Capacity: e.ring.Cap(),
		Size:     e.ring.Size(),
		Pending:  e.asm.Pending(),
		Appended: e.appended,
		Evicted:  e.evicted,
	}, nil
}

// Close releases every stored record and the pending partial record. It
// waits for in-flight operations and cannot be interrupted. Closing twice
// is a no-op.
func (e *Engine) Close() error {
	// Acquire only fails when its context is done.
	_ = e.guard.Acquire(context.Background(), 1)
	defer e.unlock()

	if e.closed {
		return nil
	}
	e.ring.Reset()
	e.asm.Reset()
	e.closed = true
	return nil
}

func (e *Engine) lock(ctx context.Context) error {
	if err := e.guard.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return nil
}

func (e *Engine) unlock() {
	e.guard.Release(1)
}
