// Package main is the entry point for the vibecheck CLI.
//
// The binary serves two audiences: MCP clients, which launch `vibecheck
// serve` (or the bare binary) and speak the protocol over stdio or HTTP,
// and humans, who use the analyze/patterns/auth subcommands directly.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
