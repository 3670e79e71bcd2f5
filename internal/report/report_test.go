package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *model.RunResult {
	return &model.RunResult{
		RunID: "01TEST",
		AsOf:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Screens: []model.ScreenResult{
			{Symbol: "LOW", Reasons: model.Reasons{model.ReasonPriceBelowMin}, Close: 2.5},
			{Symbol: "UP", Passed: true, Close: 155, AvgVol50: model.Float(1_234_567), SMA50: model.Float(140.123)},
		},
		Signals: []model.SignalResult{
			{Symbol: "UP", Signal: true, EntryPrice: model.Float(155), Peak63: model.Float(151), Retracement: model.Float(0.04637)},
		},
	}
}

func TestTables_SortAndColumns(t *testing.T) {
	tables := Tables(sampleRun())
	require.Len(t, tables, 3)

	screens := tables[0]
	assert.Equal(t, []string{"symbol", "passed", "reasons", "close", "avgvol50", "sma50"}, screens.Columns)
	assert.Equal(t, []string{"UP", "true", "", "155.00", "1234567", "140.12"}, screens.Rows[0])
	assert.Equal(t, []string{"LOW", "false", "price_below_min", "2.50", "", ""}, screens.Rows[1])

	signals := tables[1]
	assert.NotContains(t, signals.Columns, "reasons")
	assert.Equal(t, []string{"UP", "true", "155.00", "151.00", "0.0464"}, signals.Rows[0])

	assert.Empty(t, tables[2].Rows)
}

func TestTables_InputNotReordered(t *testing.T) {
	res := sampleRun()
	Tables(res)
	assert.Equal(t, "LOW", res.Screens[0].Symbol)
}

func TestWriteConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConsole(&buf, sampleRun()))
	out := buf.String()

	assert.Contains(t, out, "As of 2024-03-01 | run 01TEST")
	assert.Contains(t, out, "Screener Results")
	assert.Contains(t, out, "No executor results (no signals fired).")
	assert.Less(t, strings.Index(out, "UP "), strings.Index(out, "LOW "))
}

func TestWriteHTML(t *testing.T) {
	res := sampleRun()
	res.Screens[0].Symbol = "<script>"

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, res))
	out := buf.String()

	assert.Contains(t, out, "<h2>Signaller Results</h2>")
	assert.Contains(t, out, "<td>UP</td>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<td><script>")
	assert.Contains(t, out, "No executor results")
}

func TestSaveHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "pipeline_results.html")
	require.NoError(t, SaveHTML(path, sampleRun()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Pipeline results as of 2024-03-01")
}

func TestWriteSignalDates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSignalDates(&buf, nil))
	assert.Contains(t, buf.String(), "No signals found")

	buf.Reset()
	require.NoError(t, WriteSignalDates(&buf, []strategy.SignalDate{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Symbols: []string{"AAA", "BBB"}},
	}))
	assert.Contains(t, buf.String(), "2024-03-01  AAA, BBB")
}
