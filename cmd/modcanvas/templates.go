package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modcanvas/internal/ui"
)

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the module templates offered by the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ui.Banner(out, "templates from "+cat.Source())

			rows := make([][]string, 0, cat.Len())
			for _, t := range cat.List() {
				rows = append(rows, []string{
					ui.Brand.Sprint(t.Key),
					t.Label,
					fmt.Sprintf("%g", t.Radius),
					ui.Swatch(t.Color),
					t.Description,
				})
			}
			ui.Table(out, []string{"KEY", "LABEL", "RADIUS", "COLOR", "DESCRIPTION"}, rows)
			return nil
		},
	}
}
