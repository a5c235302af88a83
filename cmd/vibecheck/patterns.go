package main

import (
	"fmt"

	"vibecheck/internal/report"

	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the patterns in the active catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := loadConfig()

		detector, err := newDetector(cfg.CatalogPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, report.Title(fmt.Sprintf("%d patterns loaded", detector.Catalog().Len())))
		for _, def := range detector.Catalog().Definitions() {
			fmt.Fprintf(out, "\n%s (%s, severity %s, threshold %.2f)\n", def.ID, def.Name, def.Severity, def.DetectionThreshold)
			fmt.Fprintf(out, "  %s\n", def.Description)
			fmt.Fprintf(out, "  %d indicators, %d negative indicators\n", len(def.Indicators), len(def.NegativeIndicators))
		}
		return nil
	},
}
