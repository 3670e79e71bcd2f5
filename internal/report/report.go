// Package report renders pipeline results as console tables and HTML.
package report

import (
	"sort"
	"strconv"
	"time"

	"BreakoutSentinel/internal/model"
)

// Table is one rendered result section.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	Empty   string // shown instead of the table when there are no rows
}

// Tables lays out the three stage results of a run. Passing and signalled
// rows sort first; a reasons column that is empty in every row is dropped.
func Tables(res *model.RunResult) []Table {
	return []Table{screenTable(res.Screens), signalTable(res.Signals), executionTable(res.Executions)}
}

func screenTable(screens []model.ScreenResult) Table {
	rows := make([]model.ScreenResult, len(screens))
	copy(rows, screens)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Passed && !rows[j].Passed })

	t := Table{
		Title:   "Screener Results",
		Columns: []string{"symbol", "passed", "reasons", "close", "avgvol50", "sma50"},
		Empty:   "No screener results (insufficient data for indicators).",
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Symbol, strconv.FormatBool(r.Passed), r.Reasons.String(),
			price(&r.Close), volume(r.AvgVol50), price(r.SMA50),
		})
	}
	return dropEmptyReasons(t)
}

func signalTable(signals []model.SignalResult) Table {
	rows := make([]model.SignalResult, len(signals))
	copy(rows, signals)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Signal && !rows[j].Signal })

	t := Table{
		Title:   "Signaller Results",
		Columns: []string{"symbol", "signal", "reasons", "entry_price", "peak_63", "retracement"},
		Empty:   "No signaller results (insufficient data for signals).",
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Symbol, strconv.FormatBool(r.Signal), r.Reasons.String(),
			price(r.EntryPrice), price(r.Peak63), ratio(r.Retracement),
		})
	}
	return dropEmptyReasons(t)
}

func executionTable(execs []model.ExecutionResult) Table {
	t := Table{
		Title: "Executor Results",
		Columns: []string{"symbol", "valid", "reasons", "entry_price", "stop_price", "stop_distance",
			"atr_14", "risk_dollars", "position_size", "exit_trigger", "exit_price", "exit_date", "status"},
		Empty: "No executor results (no signals fired).",
	}
	for _, r := range execs {
		t.Rows = append(t.Rows, []string{
			r.Symbol, strconv.FormatBool(r.Valid), r.Reasons.String(),
			price(r.EntryPrice), price(r.StopPrice), price(r.StopDistance), price(r.ATR14),
			price(r.RiskDollars), shares(r.PositionSize), strconv.FormatBool(r.ExitTrigger),
			price(r.ExitPrice), date(r.ExitDate), string(r.Status),
		})
	}
	return dropEmptyReasons(t)
}

func dropEmptyReasons(t Table) Table {
	col := -1
	for i, c := range t.Columns {
		if c == "reasons" {
			col = i
		}
	}
	if col < 0 {
		return t
	}
	for _, row := range t.Rows {
		if row[col] != "" {
			return t
		}
	}
	t.Columns = remove(t.Columns, col)
	for i, row := range t.Rows {
		t.Rows[i] = remove(row, col)
	}
	return t
}

func remove(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func price(v *float64) string  { return number(v, 2) }
func ratio(v *float64) string  { return number(v, 4) }
func volume(v *float64) string { return number(v, 0) }
func shares(v *float64) string { return number(v, 2) }

func number(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
