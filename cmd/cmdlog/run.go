package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/MikhailWahib/cmdlog"
	"github.com/MikhailWahib/cmdlog/internal/relay"
	"github.com/MikhailWahib/cmdlog/internal/stamp"
)

func runCommand() cli.Command {
	return cli.Command{
		Name:  "run",
		Usage: "store commands read from stdin and echo the history to stdout",
		Flags: configFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := resolveConfig(c)
			if err != nil {
				return err
			}
			if !c.GlobalIsSet(levelFlagName) {
				if err := setThreshold(cfg.LogLevel); err != nil {
					return errors.Wrap(err, "setting log level")
				}
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return run(ctx, cfg, os.Stdin, os.Stdout)
		},
	}
}

func configCommand() cli.Command {
	return cli.Command{
		Name:  "config",
		Usage: "print the effective configuration",
		Flags: configFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := resolveConfig(c)
			if err != nil {
				return err
			}
			b, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.App.Writer, string(b))
			return errors.Wrap(err, "writing configuration")
		},
	}
}

// run serves in/out until in is exhausted or ctx is cancelled, then tears
// the log down.
func run(ctx context.Context, cfg *cmdlog.Config, in io.Reader, out io.Writer) error {
	log, err := cmdlog.Open(cfg)
	if err != nil {
		return errors.Wrap(err, "opening command log")
	}
	defer func() {
		grip.Warning(message.WrapError(log.Close(), message.Fields{
			"message": "closing command log",
		}))
	}()

	stamper := stamp.New(log, stamp.Options{
		Interval:   cfg.TimestampInterval,
		Layout:     cfg.TimestampLayout,
		Terminator: cfg.Terminator,
	})
	stamper.Start()
	defer stamper.Stop()

	r := relay.New(log, relay.Options{
		ChunkSize:     cfg.ChunkSize,
		Terminator:    cfg.Terminator,
		SeekDirective: cfg.SeekDirective,
	})

	errc := make(chan error, 1)
	go func() {
		errc <- r.Serve(ctx, "stdio", in, out)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
		grip.Info("caught signal, exiting")
		return nil
	}
}
