package cmd

import (
	"BreakoutSentinel/internal/report"
	"BreakoutSentinel/internal/strategy"

	"github.com/spf13/cobra"
)

var (
	scanLookback int
	scanRefresh  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find recent dates on which the breakout signal fired",
	Long: `Scan replays the signaller over each of the last N dates in the data,
each time seeing only bars up to that date, and lists the symbols that fired.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVarP(&scanLookback, "lookback", "n", 30, "number of most recent dates to check")
	scanCmd.Flags().BoolVar(&scanRefresh, "refresh", false, "ignore the cache and re-download")
}

func runScan(cmd *cobra.Command, args []string) error {
	universe, loader, release, err := loadInputs(cfg, log)
	if err != nil {
		return err
	}
	defer release()

	ctx := cmd.Context()
	table, err := loader.Load(ctx, universe, scanRefresh)
	if err != nil {
		return err
	}

	p := newPipeline(cfg, log)
	hits, err := strategy.FindSignalDates(ctx, table, universe, scanLookback, p.Signaller, p.Workers)
	if err != nil {
		return err
	}
	return report.WriteSignalDates(cmd.OutOrStdout(), hits)
}
