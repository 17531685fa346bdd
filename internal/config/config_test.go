package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.toml", `
protocol = "kitty"
sixel_colors = 100
cell_width = 7
cell_height = 14
verbose = true
`)

	cfg, err := loadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "kitty", cfg.Protocol)
	assert.Equal(t, 100, cfg.SixelColors)
	assert.Equal(t, 7, cfg.CellWidth)
	assert.Equal(t, 14, cfg.CellHeight)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.NoFallback)
}

func TestLoadFromLaterPathWins(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "base.toml", `protocol = "sixel"`)
	override := writeConfig(t, dir, "override.toml", `protocol = "iterm2"`)

	cfg, err := loadFrom(base, override)
	require.NoError(t, err)
	assert.Equal(t, "iterm2", cfg.Protocol)
}

func TestLoadFromMissingFiles(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadFromMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "bad.toml", `protocol = [broken`)

	_, err := loadFrom(path)
	assert.Error(t, err)
}
