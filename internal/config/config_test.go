package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %s, want :3000", cfg.Server.Addr)
	}
	if cfg.Canvas.Threshold != 100 {
		t.Errorf("Canvas.Threshold = %v, want 100", cfg.Canvas.Threshold)
	}
	if cfg.Canvas.Spawn.X != 300 || cfg.Canvas.Spawn.Y != 200 {
		t.Errorf("Canvas.Spawn = %+v, want (300,200)", cfg.Canvas.Spawn)
	}
	if cfg.Canvas.Root.Label != "Input" || cfg.Canvas.Root.Radius != 50 {
		t.Errorf("Canvas.Root = %+v, want Input r=50", cfg.Canvas.Root)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestCanvasSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Canvas.Threshold = 80
	cfg.Canvas.Root.Label = "Tokens"

	s := cfg.CanvasSettings()
	if s.Threshold != 80 {
		t.Errorf("Threshold = %v, want 80", s.Threshold)
	}
	if s.Root.Label != "Tokens" {
		t.Errorf("Root.Label = %s, want Tokens", s.Root.Label)
	}
	if s.RootAt.X != 100 || s.RootAt.Y != 200 {
		t.Errorf("RootAt = %+v, want (100,200)", s.RootAt)
	}
}

func TestValidate(t *testing.T) {
	t.Run("negative threshold rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Canvas.Threshold = -1
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for negative threshold")
		}
	})

	t.Run("zero preview rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Canvas.Preview.Width = -10
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for negative preview width")
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":8080"
	cfg.Canvas.Threshold = 120
	cfg.Catalog.Path = "/srv/templates.toml"
	cfg.Catalog.Watch = true
	read := Duration(5 * time.Second)
	cfg.Server.ReadTimeout = &read

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %s, want :8080", loaded.Server.Addr)
	}
	if loaded.Canvas.Threshold != 120 {
		t.Errorf("Canvas.Threshold = %v, want 120", loaded.Canvas.Threshold)
	}
	if !loaded.Catalog.Watch || loaded.Catalog.Path != "/srv/templates.toml" {
		t.Errorf("Catalog = %+v", loaded.Catalog)
	}
	if loaded.ReadTimeout() != 5*time.Second {
		t.Errorf("ReadTimeout() = %s, want 5s", loaded.ReadTimeout())
	}
	if loaded.WriteTimeout() != 30*time.Second {
		t.Errorf("WriteTimeout() = %s, want 30s default", loaded.WriteTimeout())
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "modcanvas.toml")

	data := `
version = 1

[server]
addr = ":4000"
idle_timeout = "2m"

[canvas]
threshold = 60

[canvas.spawn]
x = 10
y = 20
`
	if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.Addr != ":4000" {
		t.Errorf("Server.Addr = %s, want :4000", cfg.Server.Addr)
	}
	if cfg.IdleTimeout() != 2*time.Minute {
		t.Errorf("IdleTimeout() = %s, want 2m", cfg.IdleTimeout())
	}
	if cfg.Canvas.Threshold != 60 {
		t.Errorf("Canvas.Threshold = %v, want 60", cfg.Canvas.Threshold)
	}
	if cfg.Canvas.Spawn.X != 10 || cfg.Canvas.Spawn.Y != 20 {
		t.Errorf("Canvas.Spawn = %+v, want (10,20)", cfg.Canvas.Spawn)
	}
	// Untouched sections fall back to defaults
	if cfg.Canvas.Root.Label != "Input" {
		t.Errorf("Canvas.Root.Label = %s, want Input", cfg.Canvas.Root.Label)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("canvas: [not, a, map"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := LoadFromPath(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	found = FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}

	var parsed Duration
	if err := parsed.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if parsed.Duration() != 90*time.Second {
		t.Errorf("UnmarshalText() = %s, want 1m30s", parsed.Duration())
	}
}

func TestDefaultConfigPath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	want := filepath.Join(xdg, ConfigDirName, "config.yaml")
	if got := DefaultConfigPath(); got != want {
		t.Errorf("DefaultConfigPath() = %s, want %s", got, want)
	}

	if err := DefaultConfig().Save(DefaultConfigPath()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	t.Setenv(EnvConfigPath, "")
	if got := FindConfigPath(); got != want && filepath.Base(got) != ConfigFileName {
		t.Errorf("FindConfigPath() = %s, want %s", got, want)
	}
}
