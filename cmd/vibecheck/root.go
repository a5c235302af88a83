package main

import (
	"fmt"
	"os"

	"vibecheck/internal/config"
	"vibecheck/internal/logging"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "vibecheck",
	Short: "Engineering anti-pattern detection for text, issues and pull requests",
	Long: `vibecheck detects systematic engineering anti-patterns: infrastructure
built before standard approaches are tested, symptom patching, complexity
escalation and documentation neglect.

Run without arguments to start the MCP server with auto-detected transport,
or use the subcommands for direct CLI analysis.`,
	Version:      Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation serves MCP, so `vibecheck` works as a client command.
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(authCmd)
}

// loadConfig loads the user config, exiting on corruption. A missing config
// file is fine; defaults apply.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}
