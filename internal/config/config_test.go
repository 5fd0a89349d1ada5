package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MikhailWahib/cmdlog/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cmdlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, byte('\n'), cfg.Terminator)
	assert.Equal(t, 0, cfg.MaxRecordSize)
	assert.Equal(t, 1024, cfg.ChunkSize)
	assert.Equal(t, 10*time.Second, cfg.TimestampInterval)
	assert.NoError(t, cfg.Validate())
}

func TestFillDefaults(t *testing.T) {
	cfg := &config.Config{Capacity: 3}
	cfg.FillDefaults()

	assert.Equal(t, 3, cfg.Capacity)
	assert.Equal(t, byte('\n'), cfg.Terminator)
	assert.Equal(t, "AESDCHAR_IOCSEEKTO:", cfg.SeekDirective)
	assert.Equal(t, time.Duration(0), cfg.TimestampInterval, "zero interval disables timestamps")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *config.Config){
		"zero capacity":       func(c *config.Config) { c.Capacity = 0 },
		"negative record max": func(c *config.Config) { c.MaxRecordSize = -1 },
		"zero chunk":          func(c *config.Config) { c.ChunkSize = 0 },
		"negative interval":   func(c *config.Config) { c.TimestampInterval = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "capacity: 4\nmax_record_size: 128\ntimestamp_interval: 2s\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Capacity)
	assert.Equal(t, 128, cfg.MaxRecordSize)
	assert.Equal(t, 2*time.Second, cfg.TimestampInterval)
	assert.Equal(t, 1024, cfg.ChunkSize, "unset fields keep defaults")
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.Load(writeConfig(t, "capacity: -2\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "capacity: [\n"))
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal_RoundTripsThroughLoad(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Capacity = 7

	b, err := cfg.Marshal()
	require.NoError(t, err)

	loaded, err := config.Load(writeConfig(t, string(b)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
