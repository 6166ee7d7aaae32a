package main

import (
	"github.com/spf13/cobra"

	"modcanvas/internal/codec"
)

func exportCmd() *cobra.Command {
	var (
		src    documentSource
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a canvas document to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, exporter, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

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

			return exporter.Export(store.Document(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&src.snapshot, "snapshot", "", "Stored snapshot to export")
	cmd.Flags().StringVar(&src.input, "in", "", "Canvas document file to convert (JSON or YAML)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}
