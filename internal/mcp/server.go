// Package mcp implements the Model Context Protocol server for vibecheck
// using the mcp-go library.
//
// The server exposes analysis tools over stdio or streamable HTTP. Tool
// handlers validate their inputs at the boundary, run the rule-based
// engines and return JSON payloads. All protocol handling is delegated to
// mcp-go; this package only wires tools to the analysis packages.
package mcp

import (
	"fmt"
	"time"

	"vibecheck/internal/config"
	"vibecheck/internal/education"
	"vibecheck/internal/logging"
	"vibecheck/internal/pattern"

	"github.com/mark3labs/mcp-go/server"
)

const serverInstructions = `vibecheck analyzes engineering text, GitHub issues and pull requests for
systematic anti-patterns: infrastructure built before standard approaches are
tested, symptom patching, complexity escalation and documentation neglect.

Use analyze_text for free text, analyze_issue / analyze_pr for GitHub content,
and check_integration_alternatives before building custom integrations.`

// Server is one MCP server instance with its analysis dependencies.
type Server struct {
	config    *config.Config
	logger    *logging.AppLogger
	detector  *pattern.Detector
	educator  *education.Generator
	mcpServer *server.MCPServer
	version   string
	startTime time.Time
}

// NewServer builds a server from configuration. The pattern catalog comes
// from config.CatalogPath when set, otherwise the embedded default. Catalog
// problems are fatal here, never during a tool call.
func NewServer(cfg *config.Config, logger *logging.AppLogger, version string) (*Server, error) {
	if logger == nil {
		logger = logging.GetDefault()
	}

	var catalog *pattern.Catalog
	var err error
	if cfg.CatalogPath != "" {
		catalog, err = pattern.LoadFile(cfg.CatalogPath)
	} else {
		catalog, err = pattern.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern catalog: %w", err)
	}

	educator, err := education.NewGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to load educational content: %w", err)
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		detector:  pattern.NewDetector(catalog),
		educator:  educator,
		version:   version,
		startTime: time.Now(),
	}

	s.mcpServer = server.NewMCPServer(
		"vibecheck",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithLogging(),
		server.WithInstructions(serverInstructions),
	)
	s.registerTools()

	logger.Info("MCP server initialized",
		"version", version,
		"patterns", catalog.Len(),
	)

	return s, nil
}

// Serve starts the server on the given transport. An empty transport means
// auto-detection from the environment.
func (s *Server) Serve(transport string) error {
	resolved := ResolveTransport(transport)
	s.logger.Info("Starting MCP server", "transport", resolved)

	switch resolved {
	case TransportHTTP:
		addr := fmt.Sprintf("%s:%d", s.config.HTTPHost, s.config.HTTPPort)
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		s.logger.Info("Listening for streamable HTTP connections", "addr", addr)
		if err := httpServer.Start(addr); err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	default:
		if err := server.ServeStdio(s.mcpServer); err != nil {
			return fmt.Errorf("stdio server failed: %w", err)
		}
	}

	return nil
}
