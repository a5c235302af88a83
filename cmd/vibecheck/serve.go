package main

import (
	"vibecheck/internal/logging"
	"vibecheck/internal/mcp"

	"github.com/spf13/cobra"
)

var (
	serveTransport string
	serveHost      string
	servePort      int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Start the vibecheck MCP server.

The transport is auto-detected: container environments get streamable HTTP,
interactive terminals get stdio. Override with --transport or the
MCP_TRANSPORT environment variable.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveTransport, "transport", "t", "", "transport mode: stdio or http (auto-detected if empty)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "host for HTTP transport (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port for HTTP transport (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := logging.GetDefault()
	cfg := loadConfig()

	if serveHost != "" {
		cfg.HTTPHost = serveHost
	}
	if servePort != 0 {
		cfg.HTTPPort = servePort
	}

	srv, err := mcp.NewServer(cfg, logger, Version)
	if err != nil {
		return err
	}

	return srv.Serve(serveTransport)
}
