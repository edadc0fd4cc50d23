package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/solarlune/portal3d"
	"github.com/solarlune/portal3d/ebitengpu"
)

// Config is the demo's configuration, read from a TOML file. Keys missing from the file keep their defaults.
type Config struct {
	Window WindowConfig `toml:"window"`

	// ShaderDir is the directory shader paths are read from, and watched for changes. If it's empty, the shaders
	// built into ebitengpu are used and nothing is watched.
	ShaderDir      string `toml:"shader_dir"`
	StandardShader string `toml:"standard_shader"`

	Portal   portal3d.PortalOptions `toml:"portal"`
	Settings portal3d.SettingsData  `toml:"settings"`

	// Model is an optional .gltf / .glb file to place in the scene.
	Model string `toml:"model"`

	Orbit OrbitConfig `toml:"orbit"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// OrbitConfig controls the camera's back-and-forth sweep around the first portal.
type OrbitConfig struct {
	Radius float32 `toml:"radius"`
	Height float32 `toml:"height"`
	// Sweep is how far, in radians, the camera swings to either side.
	Sweep float32 `toml:"sweep"`
	// Period is the time, in seconds, one swing from side to side takes.
	Period float32 `toml:"period"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "portal3d",
			Width:  796,
			Height: 448,
		},
		StandardShader: ebitengpu.StandardShaderPath,
		Portal: portal3d.PortalOptions{
			ShaderPath:       ebitengpu.PortalShaderPath,
			TargetResolution: 1024,
			Size:             1,
		},
		Settings: portal3d.DefaultSettings(),
		Orbit: OrbitConfig{
			Radius: 8,
			Height: 2,
			Sweep:  0.6,
			Period: 4,
		},
	}
}

// LoadConfig reads the configuration file at path over the defaults. A missing file isn't an error.
func LoadConfig(path string) (Config, error) {

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		portal3d.Logger().Info("no config file; using defaults", "path", path)
		return cfg, nil
	} else if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil

}

func (cfg Config) Validate() error {

	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", cfg.Window.Width, cfg.Window.Height)
	}

	if cfg.StandardShader == "" || cfg.Portal.ShaderPath == "" {
		return errors.New("shader paths can't be empty")
	}

	if cfg.Orbit.Period <= 0 {
		return fmt.Errorf("orbit period %v must be positive", cfg.Orbit.Period)
	}

	return nil

}
