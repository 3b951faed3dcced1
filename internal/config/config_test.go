package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesOverridesAndKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alien.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trace_gc: true\ndisassemble: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.GCInitialThreshold)
	assert.True(t, cfg.TraceGC)
	assert.True(t, cfg.Disassemble)
}

func TestLoadParsesExplicitThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alien.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gc_initial_threshold: 200\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.GCInitialThreshold)
	assert.False(t, cfg.TraceGC)
}
