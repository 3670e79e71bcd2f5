package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"BreakoutSentinel/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun(asOf time.Time) *model.RunResult {
	exit := asOf.AddDate(0, 0, 3)
	return &model.RunResult{
		AsOf:     asOf,
		Universe: []string{"AAA", "BBB"},
		Screens: []model.ScreenResult{
			{Symbol: "AAA", Passed: true, Close: 155, SMA50: model.Float(140), AvgVol50: model.Float(1e6)},
			{Symbol: "BBB", Passed: false, Reasons: model.Reasons{model.ReasonBelowSMA50}, Close: 10},
		},
		Signals: []model.SignalResult{
			{Symbol: "AAA", Signal: true, EntryPrice: model.Float(155), Peak63: model.Float(151), Retracement: model.Float(0.05)},
			{Symbol: "BBB", Reasons: model.Reasons{model.ReasonInsufficientHist}},
		},
		Executions: []model.ExecutionResult{
			{
				Symbol: "AAA", Valid: true, EntryPrice: model.Float(155), StopPrice: model.Float(154),
				StopDistance: model.Float(1), ATR14: model.Float(2.9), RiskDollars: model.Float(2000),
				PositionSize: model.Float(2000), ExitTrigger: true, ExitPrice: model.Float(140),
				ExitDate: &exit, Status: model.StatusExit,
			},
		},
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}
}

func TestSQLiteRecorder_RecordAndQuery(t *testing.T) {
	ctx := context.Background()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()

	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	first := sampleRun(day1)
	require.NoError(t, rec.RecordRun(ctx, first))
	assert.NotEmpty(t, first.RunID)

	second := sampleRun(day2)
	second.RunID = "manual"
	require.NoError(t, rec.RecordRun(ctx, second))

	signals, err := rec.RecentSignals(ctx, 10)
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, "manual", signals[0].RunID)
	assert.True(t, signals[0].AsOf.Equal(day2))
	assert.Equal(t, "AAA", signals[0].Symbol)
	assert.Equal(t, 155.0, signals[0].EntryPrice)
	assert.True(t, signals[0].Valid)
	assert.Equal(t, model.StatusExit, signals[0].Status)
	assert.Equal(t, first.RunID, signals[1].RunID)

	limited, err := rec.RecentSignals(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	var nullSMA int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM screens WHERE sma_50 IS NULL`).Scan(&nullSMA))
	assert.Equal(t, 2, nullSMA, "one BBB row per run")
}

func TestSQLiteRecorder_DuplicateRunRollsBack(t *testing.T) {
	ctx := context.Background()
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), zerolog.Nop())
	require.NoError(t, err)
	defer rec.Close()

	run := sampleRun(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	run.RunID = "dup"
	require.NoError(t, rec.RecordRun(ctx, run))
	assert.Error(t, rec.RecordRun(ctx, run))

	var screens int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM screens`).Scan(&screens))
	assert.Equal(t, 2, screens)
}

func TestNewRunID_Sortable(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(context.Background(), sampleRun(time.Now())))
	sigs, err := r.RecentSignals(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, sigs)
	assert.NoError(t, r.Close())
}
