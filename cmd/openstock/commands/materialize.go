package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// materializeCmd represents the materialize command
var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Materialize daily datasets for a trading date",
	Long: `Fetch and persist the daily datasets (quotes, fundamentals,
money-flow) for a trading date if they are not stored yet.

Example:
  go run ./cmd/openstock materialize --date 20260827
  go run ./cmd/openstock materialize --date 20260827 --force`,
	RunE: runMaterialize,
}

var (
	materializeDate  string
	materializeForce bool
)

func init() {
	rootCmd.AddCommand(materializeCmd)

	materializeCmd.Flags().StringVar(&materializeDate, "date", "", "trading date (YYYYMMDD)")
	materializeCmd.Flags().BoolVar(&materializeForce, "force", false, "re-fetch even if already stored")
	materializeCmd.MarkFlagRequired("date")
}

func runMaterialize(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	if materializeForce {
		counts, err := app.service.SyncDay(ctx, materializeDate)
		if err != nil {
			return err
		}
		for kind, count := range counts {
			fmt.Printf("%-12s %d rows\n", kind, count)
		}
		return nil
	}

	date, err := market.ParseTradeDate(materializeDate)
	if err != nil {
		return err
	}

	if err := app.service.EnsureDay(ctx, date); err != nil {
		return err
	}

	fmt.Printf("datasets materialized for %s\n", materializeDate)
	return nil
}
