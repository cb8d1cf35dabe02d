package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Step)
	assert.Equal(t, 10, cfg.Bucket)
	assert.Equal(t, time.Second/30, cfg.TickRate)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "furry.toml", "step = 5\nbucket = 25\ntick_rate = \"50ms\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Step)
	assert.Equal(t, 25, cfg.Bucket)
	assert.Equal(t, 50*time.Millisecond, cfg.TickRate)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "furry.yaml", "step: -1\nlog_level: debug\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Step)
	assert.Equal(t, 10, cfg.Bucket)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "furry.toml", "step = 5\nbucket = 25\n")
	t.Setenv("FURRY_STEP", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Step)
	assert.Equal(t, 25, cfg.Bucket)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "furry.json", "{}"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(writeFile(t, "furry.toml", "step = \"two\"\n"))
	assert.Error(t, err)
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	cfg, err := Load(writeFile(t, "furry.toml", "step = 0\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidStep)

	t.Setenv("FURRY_BUCKET", "0")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidBucket)

	cfg.Bucket = 5
	assert.NoError(t, cfg.Validate())
}

func TestValidateLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	logger, closer, err := cfg.NewLogger()
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	logger.Info("discarded")

	cfg.LogFile = filepath.Join(t.TempDir(), "furry.log")
	cfg.LogLevel = "debug"
	logger, closer, err = cfg.NewLogger()
	require.NoError(t, err)
	logger.WithField("count", 2).Debug("count changed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "count changed")
	assert.Contains(t, string(data), "count=2")
}
