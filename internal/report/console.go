package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/strategy"
)

// WriteConsole prints the run as aligned plain-text tables.
func WriteConsole(w io.Writer, res *model.RunResult) error {
	if _, err := fmt.Fprintf(w, "As of %s | run %s\n", res.AsOf.Format("2006-01-02"), res.RunID); err != nil {
		return err
	}
	for _, t := range Tables(res) {
		if err := writeTable(w, t); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, t Table) error {
	fmt.Fprintf(w, "\n%s\n", t.Title)
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, t.Empty)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// WriteSignalDates prints the dates on which symbols fired.
func WriteSignalDates(w io.Writer, hits []strategy.SignalDate) error {
	if len(hits) == 0 {
		_, err := fmt.Fprintln(w, "No signals found in lookback window.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "date\tsymbols")
	for _, h := range hits {
		fmt.Fprintf(tw, "%s\t%s\n", h.Date.Format("2006-01-02"), strings.Join(h.Symbols, ", "))
	}
	return tw.Flush()
}
