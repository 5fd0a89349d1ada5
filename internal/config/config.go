// Package config provides configuration structures and defaults for cmdlog.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultCapacity          = 10
	defaultTerminator        = '\n'
	defaultChunkSize         = 1024
	defaultTimestampInterval = 10 * time.Second
	defaultTimestampLayout   = time.RFC1123Z
	defaultSeekDirective     = "AESDCHAR_IOCSEEKTO:"
	defaultLogLevel          = "info"
)

// Config holds the tunable parameters of a command log and its front ends.
type Config struct {
	// Capacity is the number of completed records retained.
	Capacity int `yaml:"capacity"`
	// Terminator is the byte that completes a record.
	Terminator byte `yaml:"terminator"`
	// MaxRecordSize bounds the bytes a single record, or the pending
	// partial record, may occupy. Zero means unlimited.
	MaxRecordSize int `yaml:"max_record_size"`

	ChunkSize         int           `yaml:"chunk_size"`
	TimestampInterval time.Duration `yaml:"timestamp_interval"`
	TimestampLayout   string        `yaml:"timestamp_layout"`
	SeekDirective     string        `yaml:"seek_directive"`
	LogLevel          string        `yaml:"log_level"`
}

// DefaultConfig returns a Config struct populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Capacity:          defaultCapacity,
		Terminator:        defaultTerminator,
		ChunkSize:         defaultChunkSize,
		TimestampInterval: defaultTimestampInterval,
		TimestampLayout:   defaultTimestampLayout,
		SeekDirective:     defaultSeekDirective,
		LogLevel:          defaultLogLevel,
	}
}

// FillDefaults sets any zero-value fields in the Config to their default values.
// MaxRecordSize and TimestampInterval are left alone: zero is meaningful for both.
func (c *Config) FillDefaults() {
	def := DefaultConfig()
	if c.Capacity == 0 {
		c.Capacity = def.Capacity
	}
	if c.Terminator == 0 {
		c.Terminator = def.Terminator
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = def.ChunkSize
	}
	if c.TimestampLayout == "" {
		c.TimestampLayout = def.TimestampLayout
	}
	if c.SeekDirective == "" {
		c.SeekDirective = def.SeekDirective
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate reports the first field holding an unusable value.
func (c *Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return errors.Errorf("capacity must be positive, got %d", c.Capacity)
	case c.MaxRecordSize < 0:
		return errors.Errorf("max record size must not be negative, got %d", c.MaxRecordSize)
	case c.ChunkSize <= 0:
		return errors.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	case c.TimestampInterval < 0:
		return errors.Errorf("timestamp interval must not be negative, got %s", c.TimestampInterval)
	}
	return nil
}

// Load reads a YAML file on top of the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file '%s'", path)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "decoding config file '%s'", path)
	}

	cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "validating config file '%s'", path)
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(c)
	return b, errors.Wrap(err, "encoding config")
}
