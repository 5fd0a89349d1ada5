package main

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/MikhailWahib/cmdlog"
)

const (
	levelFlagName             = "level"
	confFlagName              = "conf"
	capacityFlagName          = "capacity"
	maxRecordSizeFlagName     = "max-record-size"
	timestampIntervalFlagName = "timestamp-interval"
)

func configFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		cli.StringFlag{
			Name:   confFlagName + ", config, c",
			Usage:  "path to a YAML configuration file",
			EnvVar: "CMDLOG_CONFIG",
		},
		cli.IntFlag{
			Name:   capacityFlagName,
			Usage:  "number of commands retained before the oldest is evicted",
			EnvVar: "CMDLOG_CAPACITY",
		},
		cli.IntFlag{
			Name:   maxRecordSizeFlagName,
			Usage:  "largest command accepted, in bytes (0 for no limit)",
			EnvVar: "CMDLOG_MAX_RECORD_SIZE",
		},
		cli.DurationFlag{
			Name:   timestampIntervalFlagName,
			Usage:  "interval between timestamp records (0 to disable)",
			EnvVar: "CMDLOG_TIMESTAMP_INTERVAL",
		},
	)
}

// resolveConfig loads the configuration file, if any, and applies flags
// that were set explicitly on top of it.
func resolveConfig(c *cli.Context) (*cmdlog.Config, error) {
	cfg, err := cmdlog.LoadConfig(c.String(confFlagName))
	if err != nil {
		return nil, err
	}

	if c.IsSet(capacityFlagName) {
		cfg.Capacity = c.Int(capacityFlagName)
	}
	if c.IsSet(maxRecordSizeFlagName) {
		cfg.MaxRecordSize = c.Int(maxRecordSizeFlagName)
	}
	if c.IsSet(timestampIntervalFlagName) {
		cfg.TimestampInterval = c.Duration(timestampIntervalFlagName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid command line configuration")
	}
	return cfg, nil
}
