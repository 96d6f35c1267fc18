// Package config holds the configurable paths and render settings
// shared by the command-line tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// DataDir is the game data directory containing common/allsh.prm,
	// the track directories and the shadow textures.
	DataDir   string `json:"data_dir"`
	OutputDir string `json:"output_dir"`

	RenderSize  int `json:"render_size"`
	Supersample int `json:"supersample"`
	WebPQuality int `json:"webp_quality"`
	Workers     int `json:"workers"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir   string
	OutputDir string
	Quality   int
	Workers   int
}

// Load reads a JSON config file. Fields not set in the file keep their
// zero values until Resolve fills in defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve fills in any empty fields with defaults. CLI flags take
// priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.DataDir != "" {
		c.DataDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.DataDir == "" {
		c.DataDir = detectDataDir()
	}
	if c.OutputDir == "" && c.DataDir != "" {
		c.OutputDir = filepath.Join(c.DataDir, "renders")
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// ShipModelPath returns the all-ships model inside the data directory.
func (c *Config) ShipModelPath() string {
	return filepath.Join(c.DataDir, "common", "allsh.prm")
}

func detectDataDir() string {
	cwd, _ := os.Getwd()
	for _, base := range []string{cwd, filepath.Join(cwd, "wipeout"), filepath.Dir(cwd)} {
		if _, err := os.Stat(filepath.Join(base, "common", "allsh.prm")); err == nil {
			return base
		}
	}
	return ""
}
