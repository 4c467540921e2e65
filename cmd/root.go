package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calaudit application
var rootCmd = &cobra.Command{
	Use:   "calaudit",
	Short: "Audits Google Calendar hygiene for a set of users",
	Long: `calaudit reads the Google Calendars of a configured set of users, builds a
gap-filled busy/free timeline of each workday, and checks it against a small
set of hygiene criteria: no overlong meetings, enough of the day planned.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calaudit version %s\n" .Version}}`)

	// If no subcommand is provided, run the check command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "check")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newBlocksCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
