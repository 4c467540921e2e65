// Package server holds the shared state for the MCP server: cached
// per-account Calendar clients, the loaded configuration, and the optional
// Prometheus metrics endpoint that runs alongside the stdio transport.
package server
