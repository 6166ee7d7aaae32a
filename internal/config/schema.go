package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version" toml:"version"`
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Canvas   CanvasConfig   `yaml:"canvas" toml:"canvas"`
	Catalog  CatalogConfig  `yaml:"catalog" toml:"catalog"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr         string    `yaml:"addr" toml:"addr"`
	ReadTimeout  *Duration `yaml:"read_timeout,omitempty" toml:"read_timeout,omitempty"`
	WriteTimeout *Duration `yaml:"write_timeout,omitempty" toml:"write_timeout,omitempty"`
	IdleTimeout  *Duration `yaml:"idle_timeout,omitempty" toml:"idle_timeout,omitempty"`
}

// DatabaseConfig holds snapshot database settings
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// CanvasConfig holds the layout constants of the canvas
type CanvasConfig struct {
	// Threshold is the centre distance below which nodes connect
	Threshold float64     `yaml:"threshold" toml:"threshold"`
	Spawn     PointConfig `yaml:"spawn" toml:"spawn"`
	Root      RootConfig  `yaml:"root" toml:"root"`
	Preview   SizeConfig  `yaml:"preview" toml:"preview"`
}

// PointConfig is a canvas coordinate
type PointConfig struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// RootConfig describes the single input node seeded at startup
type RootConfig struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Radius float64 `yaml:"radius" toml:"radius"`
	Label  string  `yaml:"label" toml:"label"`
	Color  string  `yaml:"color" toml:"color"`
}

// SizeConfig is a pixel size
type SizeConfig struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// CatalogConfig points at an optional template catalog override
type CatalogConfig struct {
	Path  string `yaml:"path,omitempty" toml:"path"`
	Watch bool   `yaml:"watch" toml:"watch"`
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// durationOr returns d, or fallback when d is unset
func durationOr(d *Duration, fallback time.Duration) time.Duration {
	if d == nil || *d <= 0 {
		return fallback
	}
	return d.Duration()
}
