package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modcanvas/internal/canvas"
	"modcanvas/internal/codec"
	"modcanvas/internal/config"
	"modcanvas/internal/domain"
	"modcanvas/internal/repository/sqlite"
)

// documentSource selects where render and export read a canvas from
type documentSource struct {
	snapshot string
	input    string
}

// load returns the selected document: a stored snapshot, a JSON/YAML file,
// or a fresh canvas holding only the root node
func (s documentSource) load(ctx context.Context, cfg *config.Config) (*domain.Document, error) {
	switch {
	case s.snapshot != "" && s.input != "":
		return nil, fmt.Errorf("--snapshot and --in are mutually exclusive")

	case s.snapshot != "":
		repo, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		defer repo.Close()

		snap, err := repo.GetSnapshot(ctx, s.snapshot)
		if err != nil {
			return nil, err
		}
		return snap.Document, nil

	case s.input != "":
		f, err := os.Open(s.input)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()

		importer, _, err := codec.ForFormat(formatForPath(s.input))
		if err != nil {
			return nil, err
		}
		return importer.Parse(f)

	default:
		return canvas.NewStore(cfg.CanvasSettings()).Document(), nil
	}
}

func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// storeFor loads doc into a store so it is validated and viewable
func storeFor(cfg *config.Config, doc *domain.Document) (*canvas.Store, error) {
	store := canvas.NewStore(cfg.CanvasSettings())
	if err := store.Restore(doc); err != nil {
		return nil, err
	}
	return store, nil
}
