package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Create the tables and indexes the screening engine needs. All
statements are idempotent, so re-running on an existing database is safe.

Example:
  go run ./cmd/openstock migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.store.InitSchema(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("schema applied")
	return nil
}
