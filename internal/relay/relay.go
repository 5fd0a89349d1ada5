// Package relay drives a command log from a byte stream: every complete
// line read from the input is stored, and the stored history is echoed back
// to the output after each one. A line carrying the seek directive is not
// stored; it repositions the echo instead.
package relay

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/logging"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/MikhailWahib/cmdlog"
)

// Options configure a Relay. Zero fields take the values of
// cmdlog.DefaultConfig.
type Options struct {
	ChunkSize     int
	Terminator    byte
	SeekDirective string
	Logger        grip.Journaler
}

// Relay connects one input/output stream pair to a shared log.
type Relay struct {
	log    *cmdlog.Log
	opts   Options
	logger grip.Journaler
}

// New creates a Relay for log.
func New(log *cmdlog.Log, opts Options) *Relay {
	def := cmdlog.DefaultConfig()
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = def.ChunkSize
	}
	if opts.Terminator == 0 {
		opts.Terminator = def.Terminator
	}
	if opts.SeekDirective == "" {
		opts.SeekDirective = def.SeekDirective
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.MakeGrip(grip.GetSender())
	}
	return &Relay{log: log, opts: opts, logger: logger}
}

// Serve reads in until EOF or until ctx is done. name identifies the peer in
// log messages. Unterminated bytes left at EOF are discarded.
func (r *Relay) Serve(ctx context.Context, name string, in io.Reader, out io.Writer) error {
	r.logger.Info(message.Fields{
		"message": "accepted stream",
		"peer":    name,
	})

	s := r.log.NewSession(ctx)
	err := r.serve(ctx, s, in, out)

	fields := message.Fields{
		"message": "closed stream",
		"peer":    name,
	}
	if stats, statErr := r.log.Stats(ctx); statErr == nil {
		fields["history"] = humanize.Bytes(uint64(stats.Size))
		fields["commands"] = stats.Records
	}
	r.logger.Info(fields)
	return err
}

func (r *Relay) serve(ctx context.Context, s *cmdlog.Session, in io.Reader, out io.Writer) error {
	chunk := make([]byte, r.opts.ChunkSize)
	var packet []byte

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := in.Read(chunk)
		packet = append(packet, chunk[:n]...)

		for {
			i := bytes.IndexByte(packet, r.opts.Terminator)
			if i < 0 {
				break
			}
			if err := r.handleLine(s, packet[:i+1], out); err != nil {
				return err
			}
			packet = packet[i+1:]
		}

		if readErr == io.EOF {
			if len(packet) > 0 {
				r.logger.Debug(message.Fields{
					"message":   "discarding unterminated input",
					"remaining": len(packet),
				})
			}
			return nil
		}
		if readErr != nil {
			return errors.Wrap(readErr, "receiving data")
		}
	}
}

func (r *Relay) handleLine(s *cmdlog.Session, line []byte, out io.Writer) error {
	if index, intra, ok, err := r.parseDirective(line); ok {
		if err != nil {
			r.logger.Warning(message.WrapError(err, message.Fields{
				"message": "ignoring malformed seek directive",
			}))
			return nil
		}
		if _, err := s.SeekTo(index, intra); err != nil {
			if errors.Is(err, cmdlog.ErrInvalidArgument) {
				r.logger.Warning(message.WrapError(err, message.Fields{
					"message": "ignoring seek outside history",
					"command": index,
					"offset":  intra,
				}))
				return nil
			}
			return err
		}
		return r.send(s, out)
	}

	if _, err := s.Write(line); err != nil {
		if errors.Is(err, cmdlog.ErrOutOfMemory) {
			r.logger.Warning(message.WrapError(err, message.Fields{
				"message": "dropping oversized command",
				"size":    len(line),
			}))
			return nil
		}
		return err
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return r.send(s, out)
}

// send streams the history from the session position to out.
func (r *Relay) send(s *cmdlog.Session, out io.Writer) error {
	_, err := io.Copy(out, s)
	return errors.Wrap(err, "sending history")
}

// parseDirective reports whether line is a seek directive and, if so, the
// command index and byte offset it names.
func (r *Relay) parseDirective(line []byte) (index, intra int, ok bool, err error) {
	body, found := strings.CutPrefix(string(line), r.opts.SeekDirective)
	if !found {
		return 0, 0, false, nil
	}
	body = strings.TrimRight(body, string([]byte{r.opts.Terminator})+"\r")

	x, y, found := strings.Cut(body, ",")
	if !found {
		return 0, 0, true, errors.Errorf("seek directive '%s' lacks a comma", body)
	}
	if index, err = strconv.Atoi(strings.TrimSpace(x)); err != nil {
		return 0, 0, true, errors.Wrapf(err, "parsing command index '%s'", x)
	}
	if intra, err = strconv.Atoi(strings.TrimSpace(y)); err != nil {
		return 0, 0, true, errors.Wrapf(err, "parsing command offset '%s'", y)
	}
	return index, intra, true, nil
}
