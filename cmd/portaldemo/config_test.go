package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/solarlune/portal3d"
	"github.com/solarlune/portal3d/ebitengpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portaldemo.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {

	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ebitengpu.StandardShaderPath, cfg.StandardShader)
	assert.Equal(t, ebitengpu.PortalShaderPath, cfg.Portal.ShaderPath)
	assert.Equal(t, portal3d.DefaultSettings(), cfg.Settings)
	assert.Empty(t, cfg.ShaderDir, "built-in shaders by default")

}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigPartial(t *testing.T) {

	path := writeConfig(t, `
shader_dir = "shaders"

[window]
width = 1280

[portal]
target_resolution = 512

[settings]
use_bump_map = false
bump_weight = 0.5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "shaders", cfg.ShaderDir)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, DefaultConfig().Window.Height, cfg.Window.Height, "missing keys keep their defaults")
	assert.Equal(t, 512, cfg.Portal.TargetResolution)
	assert.Equal(t, ebitengpu.PortalShaderPath, cfg.Portal.ShaderPath)
	assert.False(t, cfg.Settings.UseBumpMap)
	assert.True(t, cfg.Settings.UseDiffuseMap)
	assert.Equal(t, float32(0.5), cfg.Settings.BumpWeight)

}

func TestLoadConfigErrors(t *testing.T) {

	_, err := LoadConfig(writeConfig(t, "[window\nwidth = 3"))
	assert.Error(t, err, "malformed TOML")

	_, err = LoadConfig(writeConfig(t, "[window]\nwidth = 0"))
	assert.ErrorContains(t, err, "window size")

	_, err = LoadConfig(writeConfig(t, "[orbit]\nperiod = -1.0"))
	assert.ErrorContains(t, err, "orbit period")

	_, err = LoadConfig(writeConfig(t, `standard_shader = ""`))
	assert.ErrorContains(t, err, "shader paths")

}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := LoadConfig("portaldemo.toml")
	require.NoError(t, err)
	assert.Equal(t, "portal3d demo", cfg.Window.Title)
	assert.Equal(t, 1024, cfg.Portal.TargetResolution)
}

func TestShaderWatcher(t *testing.T) {

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shaders"), 0o755))

	watcher, err := watchShaders(dir, "shaders/standard.kage", "shaders/portal.kage")
	require.NoError(t, err)
	defer watcher.Close()

	assert.Equal(t, []string{filepath.Join(dir, "shaders", "standard.kage"), filepath.Join(dir, "shaders", "portal.kage")}, watcher.files)
	assert.Empty(t, watcher.Changed())

	watcher.changed <- watcher.files[0]
	watcher.changed <- watcher.files[0]
	watcher.changed <- watcher.files[1]
	assert.Equal(t, watcher.files, watcher.Changed(), "duplicates are merged")

}
