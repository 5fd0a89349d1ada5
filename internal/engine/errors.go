package engine

import (
	"errors"

	"github.com/MikhailWahib/cmdlog/internal/record"
	"github.com/MikhailWahib/cmdlog/internal/ring"
)

var (
	// ErrOutOfMemory reports that a write could not be assembled within the
	// allocation budget. Nothing from the write was stored.
	ErrOutOfMemory = record.ErrOutOfMemory
	// ErrInvalidArgument reports a seek or command position outside the
	// current contents.
	ErrInvalidArgument = ring.ErrInvalidArgument
	// ErrInterrupted reports that the wait for the log lock was cancelled
	// before the operation started.
	ErrInterrupted = errors.New("interrupted waiting for log lock")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("log is closed")
)
