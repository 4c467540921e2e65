// Package cmd implements the command-line interface for calaudit.
//
// This package provides the following commands:
//   - blocks: Print the gap-filled busy/free workday timeline for one date
//   - check: Audit one workday against the hygiene criteria
//   - compare: Audit two workdays against the planning-horizon criteria
//   - auth: Authorize read-only Google Calendar access for an account
//   - config: Show or initialize the configuration file
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//
// The check command is the default command when no subcommand is specified.
package cmd
