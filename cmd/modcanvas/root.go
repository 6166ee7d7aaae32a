package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modcanvas/internal/catalog"
	"modcanvas/internal/config"
	"modcanvas/internal/ui"
)

var version = "0.1.0"

var (
	configPath  string
	catalogPath string
	dbPath      string
)

var rootCmd = &cobra.Command{
	Use:   "modcanvas",
	Short: "modcanvas: drag-to-connect module graph editor",
	Long: ui.Brand.Sprint("modcanvas") + " serves a module-graph canvas\n" +
		ui.Subtle.Sprint("Place modules from a template catalog and drag them together to connect them"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("modcanvas {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: search standard locations)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Template catalog file (TOML or YAML)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite snapshot database path")

	rootCmd.AddCommand(
		serveCmd(),
		templatesCmd(),
		renderCmd(),
		exportCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Fprintf(rootCmd.ErrOrStderr(), "modcanvas: %v\n", err)
		return err
	}
	return nil
}

// loadConfig reads the config file and applies persistent flag overrides
func loadConfig() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}

	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, path, nil
}

// loadCatalog returns the configured catalog override or the embedded one
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}
