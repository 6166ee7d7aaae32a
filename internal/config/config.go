// Package config provides configuration management for modcanvas.
//
// Config files are YAML; a file ending in .toml is read as TOML instead.
//
// Config file locations (priority order):
//  1. $MODCANVAS_CONFIG
//  2. ./modcanvas.yaml, then ./modcanvas.toml
//  3. $XDG_CONFIG_HOME/modcanvas/config.yaml
//  4. ~/.config/modcanvas/config.yaml
//  5. /etc/modcanvas/config.yaml
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"modcanvas/internal/canvas"
	"modcanvas/internal/domain"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the layout of the reference canvas
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./modcanvas.db"
	}

	def := canvas.DefaultSettings()
	cv := &c.Canvas
	if cv.Threshold == 0 {
		cv.Threshold = def.Threshold
	}
	if cv.Spawn == (PointConfig{}) {
		cv.Spawn = PointConfig{X: def.Spawn.X, Y: def.Spawn.Y}
	}
	if cv.Root.X == 0 && cv.Root.Y == 0 {
		cv.Root.X, cv.Root.Y = def.RootAt.X, def.RootAt.Y
	}
	if cv.Root.Radius == 0 {
		cv.Root.Radius = def.Root.Radius
	}
	if cv.Root.Label == "" {
		cv.Root.Label = def.Root.Label
	}
	if cv.Root.Color == "" {
		cv.Root.Color = def.Root.Color
	}
	if cv.Preview.Width == 0 {
		cv.Preview.Width = 800
	}
	if cv.Preview.Height == 0 {
		cv.Preview.Height = 400
	}
}

// Validate rejects values the canvas cannot run with
func (c *Config) Validate() error {
	if c.Canvas.Threshold <= 0 {
		return fmt.Errorf("canvas.threshold must be positive, got %v", c.Canvas.Threshold)
	}
	if c.Canvas.Root.Radius <= 0 {
		return fmt.Errorf("canvas.root.radius must be positive, got %v", c.Canvas.Root.Radius)
	}
	if c.Canvas.Preview.Width <= 0 || c.Canvas.Preview.Height <= 0 {
		return fmt.Errorf("canvas.preview size must be positive, got %dx%d",
			c.Canvas.Preview.Width, c.Canvas.Preview.Height)
	}
	return nil
}

// CanvasSettings converts the canvas section into store settings
func (c *Config) CanvasSettings() canvas.Settings {
	def := canvas.DefaultSettings()
	root := def.Root
	root.Label = c.Canvas.Root.Label
	root.Color = c.Canvas.Root.Color
	root.Radius = c.Canvas.Root.Radius

	return canvas.Settings{
		Threshold: c.Canvas.Threshold,
		Spawn:     domain.NewPoint(c.Canvas.Spawn.X, c.Canvas.Spawn.Y),
		Root:      root,
		RootAt:    domain.NewPoint(c.Canvas.Root.X, c.Canvas.Root.Y),
	}
}

// ReadTimeout returns the HTTP read timeout
func (c *Config) ReadTimeout() time.Duration {
	return durationOr(c.Server.ReadTimeout, 10*time.Second)
}

// WriteTimeout returns the HTTP write timeout
func (c *Config) WriteTimeout() time.Duration {
	return durationOr(c.Server.WriteTimeout, 30*time.Second)
}

// IdleTimeout returns the HTTP idle timeout
func (c *Config) IdleTimeout() time.Duration {
	return durationOr(c.Server.IdleTimeout, 60*time.Second)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	catalog := c.Catalog.Path
	if catalog == "" {
		catalog = "embedded"
	}
	summary := fmt.Sprintf("Listen: %s, Database: %s\n", c.Server.Addr, c.Database.Path)
	summary += fmt.Sprintf("Threshold: %g, Spawn: (%g,%g), Root: %s at (%g,%g) r=%g\n",
		c.Canvas.Threshold, c.Canvas.Spawn.X, c.Canvas.Spawn.Y,
		c.Canvas.Root.Label, c.Canvas.Root.X, c.Canvas.Root.Y, c.Canvas.Root.Radius)
	summary += fmt.Sprintf("Catalog: %s (watch: %t)", catalog, c.Catalog.Watch)
	return summary
}
