package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhongcheng0519/openstock/internal/market"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run the money-flow screen for a trading date",
	Long: `Run the money-flow screen for a trading date, materializing the
daily datasets first if they are not stored yet.

Example:
  go run ./cmd/openstock screen --date 20260827
  go run ./cmd/openstock screen --date 20260827 --top 10 --min-turnover 8`,
	RunE: runScreen,
}

var (
	screenDate        string
	screenTopN        int
	screenMinPct      float64
	screenMaxPct      float64
	screenMinCircMv   float64
	screenMinPe       float64
	screenMaxPe       float64
	screenMinTurnover float64
)

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVar(&screenDate, "date", "", "trading date (YYYYMMDD)")
	screenCmd.Flags().IntVar(&screenTopN, "top", market.DefaultTopN, "result limit after ranking")
	screenCmd.Flags().Float64Var(&screenMinPct, "min-pct", market.DefaultMinPct, "minimum percent change")
	screenCmd.Flags().Float64Var(&screenMaxPct, "max-pct", market.DefaultMaxPct, "maximum percent change")
	screenCmd.Flags().Float64Var(&screenMinCircMv, "min-circ-mv", market.DefaultMinCircMv, "minimum circulating market value (10k CNY)")
	screenCmd.Flags().Float64Var(&screenMinPe, "min-pe", market.DefaultMinPe, "minimum price-to-earnings ratio")
	screenCmd.Flags().Float64Var(&screenMaxPe, "max-pe", market.DefaultMaxPe, "maximum price-to-earnings ratio")
	screenCmd.Flags().Float64Var(&screenMinTurnover, "min-turnover", market.DefaultMinTurnoverRate, "minimum turnover rate")
	screenCmd.MarkFlagRequired("date")
}

func runScreen(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	criteria := market.DefaultFilterCriteria(screenDate)
	criteria.TopN = screenTopN
	criteria.MinPct = screenMinPct
	criteria.MaxPct = screenMaxPct
	criteria.MinCircMv = screenMinCircMv
	criteria.MinPe = screenMinPe
	criteria.MaxPe = screenMaxPe
	criteria.MinTurnoverRate = screenMinTurnover

	result, err := app.service.EnsureAndScreen(cmd.Context(), criteria)
	if err != nil {
		return err
	}

	fmt.Printf("%d stocks matched on %s\n\n", result.Count, result.TradeDate)
	fmt.Printf("%-12s %-10s %8s %10s %12s %16s\n",
		"ts_code", "name", "pct_chg", "pe", "turnover", "net_mf_amount")
	for _, rec := range result.Records {
		fmt.Printf("%-12s %-10s %8s %10s %12s %16s\n",
			rec.TsCode, rec.Name,
			rec.PctChg.StringFixed(2),
			rec.Pe.StringFixed(2),
			rec.TurnoverRate.StringFixed(2),
			rec.NetMfAmount.StringFixed(2))
	}
	return nil
}
