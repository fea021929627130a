package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FISCAL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "data/processed", cfg.Paths.ProcessedDir)
	assert.Equal(t, 0.01, cfg.Pipeline.DuplicateTolerance)
	assert.Equal(t, 3, cfg.Upstream.MaxRetries)
	assert.Equal(t, 2014, cfg.Upstream.YearStart)
	assert.Equal(t, 2024, cfg.Upstream.YearEnd)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("FISCAL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FISCAL_SERVER_PORT", "9090")
	t.Setenv("FISCAL_LOGGING_LEVEL", "debug")
	t.Setenv("FISCAL_PIPELINE_DUPLICATE_TOLERANCE", "0.05")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 0.05, cfg.Pipeline.DuplicateTolerance)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 7070\npaths:\n  processed_dir: out/processed\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Setenv("FISCAL_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "out/processed", cfg.Paths.ProcessedDir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "FISCAL_SERVER_PORT", "70000"},
		{"bad log level", "FISCAL_LOGGING_LEVEL", "verbose"},
		{"tolerance out of range", "FISCAL_PIPELINE_DUPLICATE_TOLERANCE", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FISCAL_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestArtifactPaths(t *testing.T) {
	paths := PathsConfig{ProcessedDir: "data/processed"}
	assert.Equal(t, filepath.Join("data", "processed", FileCleanData), paths.ArtifactPath(FileCleanData))

	for _, name := range ArtifactFiles {
		assert.True(t, IsArtifact(name), name)
	}
	assert.False(t, IsArtifact("random.csv"))
	assert.False(t, IsArtifact("../etc/passwd"))
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := PathsConfig{
		DataDir:      filepath.Join(dir, "data"),
		ProcessedDir: filepath.Join(dir, "data", "processed"),
		CacheDir:     filepath.Join(dir, "data", "cache"),
		LogsDir:      filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())
	for _, p := range []string{paths.DataDir, paths.ProcessedDir, paths.CacheDir, paths.LogsDir} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
