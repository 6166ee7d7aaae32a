package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"modcanvas/internal/render"
	"modcanvas/internal/ui"
)

func renderCmd() *cobra.Command {
	var (
		src    documentSource
		out    string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a canvas to PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			doc, err := src.load(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			store, err := storeFor(cfg, doc)
			if err != nil {
				return err
			}

			opts := render.Options{
				Width:      cfg.Canvas.Preview.Width,
				Height:     cfg.Canvas.Preview.Height,
				Background: render.BackgroundColor,
			}
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := render.PNG(f, store.View(), opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s (%d nodes, %d edges, %dx%d)\n",
				ui.StatusIcon(true), out, store.NodeCount(), len(store.Edges()), opts.Width, opts.Height)
			return nil
		},
	}

	cmd.Flags().StringVar(&src.snapshot, "snapshot", "", "Stored snapshot to render")
	cmd.Flags().StringVar(&src.input, "in", "", "Canvas document file to render (JSON or YAML)")
	cmd.Flags().StringVarP(&out, "out", "o", "canvas.png", "Output PNG path")
	cmd.Flags().IntVar(&width, "width", 0, "Image width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "Image height (default from config)")
	return cmd
}
