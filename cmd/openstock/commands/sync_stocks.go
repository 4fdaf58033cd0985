package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// syncStocksCmd represents the sync-stocks command
var syncStocksCmd = &cobra.Command{
	Use:   "sync-stocks",
	Short: "Refresh the instrument roster from upstream",
	Long: `Fetch the full listed-instrument roster from the data provider and
upsert it into the stocks table.

Example:
  go run ./cmd/openstock sync-stocks`,
	RunE: runSyncStocks,
}

func init() {
	rootCmd.AddCommand(syncStocksCmd)
}

func runSyncStocks(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	count, err := app.service.SyncInstruments(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("%d instruments synced\n", count)
	return nil
}
