package sched

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
data_dir: /tmp/nasin-data
log_level: debug
history: false
history_file: /tmp/nasin-history.csv
default_priority: 7
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		DataDir:         "/tmp/nasin-data",
		LogLevel:        "debug",
		History:         false,
		HistoryFile:     "/tmp/nasin-history.csv",
		DefaultPriority: 7,
	}, cfg)
}

func TestLoadConfigClamps(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "default_priority: 0\nlog_level: \"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, MinPriority, cfg.DefaultPriority)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg, err = LoadConfig(writeConfig(t, "default_priority: 900\n"))
	require.NoError(t, err)
	assert.Equal(t, MaxPriority, cfg.DefaultPriority)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "log_level: warn\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.History)
	assert.Equal(t, MinPriority, cfg.DefaultPriority)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "default_priority: [oops\n"))
	assert.Error(t, err)
}
