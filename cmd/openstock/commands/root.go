package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "openstock",
	Short: "openstock - on-demand stock screening backend",
	Long: `openstock unified CLI

A股选股后端: materializes daily market data on demand and screens it
with multi-table filter criteria.

Usage:
  go run ./cmd/openstock [command]

Examples:
  go run ./cmd/openstock api
  go run ./cmd/openstock materialize --date 20260827
  go run ./cmd/openstock screen --date 20260827 --top 30
  go run ./cmd/openstock sync-stocks
  go run ./cmd/openstock test-db`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
