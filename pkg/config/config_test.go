package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(0x17b5), cfg.Adapter.VendorID)
	assert.Equal(t, uint16(0x0020), cfg.Adapter.ProductID)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9129", cfg.Metrics.ListenAddr)
}

func TestLoadOverridesExplicitFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dali.yaml")
	content := "log_level: debug\nmetrics:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Metrics.Enabled)
	// Fields the file didn't mention keep their defaults.
	assert.Equal(t, uint16(0x17b5), cfg.Adapter.VendorID)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: valid: yaml: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
