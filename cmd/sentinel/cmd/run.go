package cmd

import (
	"fmt"
	"time"

	"BreakoutSentinel/internal/recorder"
	"BreakoutSentinel/internal/report"

	"github.com/spf13/cobra"
)

const defaultHTMLPath = "reports/pipeline_results.html"

var (
	runAsOf    string
	runRefresh bool
	runHTML    string
	runRecord  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run screener, signaller and executor once and print the results",
	Long: `Run loads the universe and its daily history, then screens, signals and
sizes every symbol.

With --asof the screener and signaller only see bars up to that date, while
the executor still scans later bars for exits.

Example:
  sentinel run --asof 2024-03-01 --html`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runAsOf, "asof", "", "run using data up to YYYY-MM-DD")
	runCmd.Flags().BoolVar(&runRefresh, "refresh", false, "ignore the cache and re-download")
	runCmd.Flags().StringVar(&runHTML, "html", "", "also write an HTML report (default path "+defaultHTMLPath+")")
	runCmd.Flags().Lookup("html").NoOptDefVal = defaultHTMLPath
	runCmd.Flags().BoolVar(&runRecord, "record", false, "store the run in the SQLite history")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	var asOf time.Time
	if runAsOf != "" {
		t, err := time.Parse("2006-01-02", runAsOf)
		if err != nil {
			return fmt.Errorf("invalid --asof %q: %w", runAsOf, err)
		}
		asOf = t
	}

	universe, loader, release, err := loadInputs(cfg, log)
	if err != nil {
		return err
	}
	defer release()

	ctx := cmd.Context()
	table, err := loader.Load(ctx, universe, runRefresh)
	if err != nil {
		return err
	}

	res, err := newPipeline(cfg, log).Run(ctx, table, universe, asOf)
	if err != nil {
		return err
	}
	res.RunID = recorder.NewRunID()

	if err := report.WriteConsole(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if runHTML != "" {
		if err := report.SaveHTML(runHTML, res); err != nil {
			return err
		}
		log.Info().Str("path", runHTML).Msg("html report written")
	}
	if runRecord {
		rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			return err
		}
		defer rec.Close()
		if err := rec.RecordRun(ctx, res); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}
	return nil
}
