package mcp

import "os"

// Transport names accepted by Serve and ResolveTransport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ResolveTransport picks the transport to serve on. An explicit value wins.
// Otherwise: container environments get HTTP, the MCP_TRANSPORT variable can
// override, and an interactive terminal implies a stdio MCP client launched
// the binary.
func ResolveTransport(explicit string) string {
	if explicit == TransportStdio || explicit == TransportHTTP {
		return explicit
	}

	if inDocker() {
		return TransportHTTP
	}

	switch os.Getenv("MCP_TRANSPORT") {
	case TransportStdio:
		return TransportStdio
	case TransportHTTP, "streamable-http":
		return TransportHTTP
	}

	if os.Getenv("TERM") != "" {
		return TransportStdio
	}
	return TransportHTTP
}

// inDocker is a var so tests can pin the environment.
var inDocker = func() bool {
	if os.Getenv("RUNNING_IN_DOCKER") != "" {
		return true
	}
	_, err := os.Stat("/.dockerenv")
	return err == nil
}
