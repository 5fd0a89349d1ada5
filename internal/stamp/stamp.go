// Package stamp periodically appends a wall-clock timestamp record to a
// command log.
package stamp

import (
	"context"
	"errors"
	"time"

	"github.com/jpillora/backoff"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/logging"
	"github.com/mongodb/grip/message"
	"github.com/robfig/cron"

	"github.com/MikhailWahib/cmdlog/internal/engine"
)

// Prefix starts every timestamp record.
const Prefix = "timestamp:"

const (
	attemptTimeout = 100 * time.Millisecond
	minRetryDelay  = 10 * time.Millisecond
	maxRetryDelay  = time.Second
)

// Writer is the part of a command log a Stamper needs.
type Writer interface {
	Write(ctx context.Context, p []byte) (int, error)
}

// Options configure a Stamper.
type Options struct {
	// Interval between records. Zero disables the schedule.
	Interval time.Duration
	// Layout is a time.Format layout.
	Layout string
	// Terminator ends each record.
	Terminator byte
	Logger     grip.Journaler
	// Now defaults to time.Now.
	Now func() time.Time
}

// Stamper writes "timestamp:<time>" records on a fixed schedule.
type Stamper struct {
	w      Writer
	opts   Options
	sched  *cron.Cron
	logger grip.Journaler
}

// New creates a Stamper writing to w. It does nothing until Start.
func New(w Writer, opts Options) *Stamper {
	if opts.Layout == "" {
		opts.Layout = time.RFC1123Z
	}
	if opts.Terminator == 0 {
		opts.Terminator = '\n'
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.MakeGrip(grip.GetSender())
	}
	return &Stamper{w: w, opts: opts, logger: logger}
}

// Start begins the schedule. It is a no-op when the interval is zero.
func (s *Stamper) Start() {
	if s.opts.Interval <= 0 || s.sched != nil {
		return
	}
	s.sched = cron.New()
	s.sched.Schedule(cron.Every(s.opts.Interval), cron.FuncJob(s.tick))
	s.sched.Start()

	s.logger.Info(message.Fields{
		"message":  "timestamp schedule started",
		"interval": s.opts.Interval.String(),
	})
}

// Stop ends the schedule. A tick already running is allowed to finish.
func (s *Stamper) Stop() {
	if s.sched == nil {
		return
	}
	s.sched.Stop()
	s.sched = nil
}

// Stamp writes one timestamp record now. A lock wait that times out is
// retried with backoff until ctx is done.
func (s *Stamper) Stamp(ctx context.Context) error {
	line := s.Format(s.opts.Now())
	b := &backoff.Backoff{
		Min:    minRetryDelay,
		Max:    maxRetryDelay,
		Factor: 2,
		Jitter: true,
	}

	for {
		err := s.write(ctx, line)
		if err == nil {
			return nil
		}
		if !errors.Is(err, engine.ErrInterrupted) || ctx.Err() != nil {
			return err
		}

		delay := b.Duration()
		s.logger.Debug(message.Fields{
			"message": "log busy, retrying timestamp",
			"attempt": b.Attempt(),
			"delay":   delay.String(),
		})
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
	}
}

// Format renders the record written for t.
func (s *Stamper) Format(t time.Time) []byte {
	line := make([]byte, 0, len(Prefix)+len(s.opts.Layout)+8)
	line = append(line, Prefix...)
	line = t.AppendFormat(line, s.opts.Layout)
	return append(line, s.opts.Terminator)
}

func (s *Stamper) write(ctx context.Context, line []byte) error {
	attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	_, err := s.w.Write(attemptCtx, line)
	return err
}

func (s *Stamper) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Interval)
	defer cancel()

	if err := s.Stamp(ctx); err != nil {
		s.logger.Error(message.WrapError(err, message.Fields{
			"message": "writing timestamp record",
		}))
	}
}
