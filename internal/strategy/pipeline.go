package strategy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/model"

	"github.com/rs/zerolog"
)

// Observer receives a completed run, e.g. for metrics.
type Observer interface {
	ObserveRun(res *model.RunResult)
}

// Pipeline runs screen -> signal -> execute over a universe.
type Pipeline struct {
	Screener  ScreenerRules
	Signaller SignalRules
	Sizing    Sizing
	Workers   int // per-stage fan-out; <=1 runs sequentially
	Log       zerolog.Logger
	Observer  Observer
}

// NewPipeline creates a pipeline with default rules and sizing.
func NewPipeline(log zerolog.Logger) *Pipeline {
	return &Pipeline{
		Screener:  DefaultScreenerRules(),
		Signaller: DefaultSignalRules(),
		Sizing:    DefaultSizing(),
		Workers:   1,
		Log:       log,
	}
}

// Run evaluates the universe as of asOf. The screener and signaller only see
// rows up to asOf; the executor sees the full table so it can scan for exits.
// A zero asOf means the latest date in the table.
func (p *Pipeline) Run(ctx context.Context, table *model.Table, universe []string, asOf time.Time) (*model.RunResult, error) {
	if table == nil {
		return nil, fmt.Errorf("run pipeline: nil table")
	}
	res := &model.RunResult{
		Universe:  universe,
		StartedAt: time.Now(),
	}

	decision := table
	if asOf.IsZero() {
		latest, ok := table.LatestDate()
		if !ok {
			return nil, fmt.Errorf("run pipeline: table has no rows")
		}
		asOf = latest
	} else {
		decision = table.Until(asOf)
	}
	res.AsOf = model.Day(asOf)

	res.Screens = RunScreener(decision, universe, p.Screener, p.Workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Signals = RunSignaller(decision, universe, p.Signaller, p.Workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Executions = RunExecutor(table, res.Signals, universe, res.AsOf, p.Sizing, p.Workers)
	res.FinishedAt = time.Now()

	p.Log.Info().
		Time("as_of", res.AsOf).
		Int("universe", len(universe)).
		Int("screened", len(res.Screens)).
		Int("passed", len(res.Passed())).
		Int("signals", len(res.Fired())).
		Int("executions", len(res.Executions)).
		Dur("took", res.FinishedAt.Sub(res.StartedAt)).
		Msg("pipeline run")

	if p.Observer != nil {
		p.Observer.ObserveRun(res)
	}
	return res, nil
}

// RunScreener screens every universe symbol present in table.
func RunScreener(table *model.Table, universe []string, rules ScreenerRules, workers int) []model.ScreenResult {
	return mapUniverse(universe, workers, func(symbol string) (model.ScreenResult, bool) {
		bars, ok := usableSeries(table, symbol)
		if !ok {
			return model.ScreenResult{}, false
		}
		return Screen(symbol, calculator.Enrich(bars), rules)
	})
}

// RunSignaller evaluates the breakout pattern for every universe symbol present in table.
func RunSignaller(table *model.Table, universe []string, rules SignalRules, workers int) []model.SignalResult {
	return mapUniverse(universe, workers, func(symbol string) (model.SignalResult, bool) {
		bars, ok := usableSeries(table, symbol)
		if !ok {
			return model.SignalResult{}, false
		}
		return Signal(symbol, calculator.Enrich(bars), rules), true
	})
}

// RunExecutor sizes and exit-scans every signalled universe symbol.
// table should be the full history, not the as-of slice.
func RunExecutor(table *model.Table, signals []model.SignalResult, universe []string, asOf time.Time, sizing Sizing, workers int) []model.ExecutionResult {
	fired := make(map[string]bool, len(signals))
	for _, s := range signals {
		fired[s.Symbol] = s.Signal
	}
	if asOf.IsZero() {
		asOf, _ = table.LatestDate()
	}
	return mapUniverse(universe, workers, func(symbol string) (model.ExecutionResult, bool) {
		if !fired[symbol] {
			return model.ExecutionResult{}, false
		}
		bars, ok := usableSeries(table, symbol)
		if !ok {
			return model.ExecutionResult{}, false
		}
		return Execute(symbol, calculator.Enrich(bars), asOf, sizing), true
	})
}

// SignalDate lists the symbols that fired on one date.
type SignalDate struct {
	Date    time.Time
	Symbols []string
}

// FindSignalDates replays the signaller over the last lookback dates of
// table, each time on the table truncated to that date.
func FindSignalDates(ctx context.Context, table *model.Table, universe []string, lookback int, rules SignalRules, workers int) ([]SignalDate, error) {
	dates := table.Dates()
	if lookback > 0 && len(dates) > lookback {
		dates = dates[len(dates)-lookback:]
	}
	var hits []SignalDate
	for _, day := range dates {
		if err := ctx.Err(); err != nil {
			return hits, err
		}
		var fired []string
		for _, s := range RunSignaller(table.Until(day), universe, rules, workers) {
			if s.Signal {
				fired = append(fired, s.Symbol)
			}
		}
		if len(fired) > 0 {
			hits = append(hits, SignalDate{Date: day, Symbols: fired})
		}
	}
	return hits, nil
}

func usableSeries(table *model.Table, symbol string) (model.Series, bool) {
	if !table.Has(symbol) {
		return nil, false
	}
	bars := table.Series(symbol)
	return bars, len(bars) > 0
}

// mapUniverse applies fn to every symbol and keeps the results fn accepts,
// in universe order regardless of the number of workers.
func mapUniverse[T any](universe []string, workers int, fn func(symbol string) (T, bool)) []T {
	type slot struct {
		val T
		ok  bool
	}
	slots := make([]slot, len(universe))

	if workers <= 1 {
		for i, sym := range universe {
			v, ok := fn(sym)
			slots[i] = slot{v, ok}
		}
	} else {
		idx := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idx {
					v, ok := fn(universe[i])
					slots[i] = slot{v, ok}
				}
			}()
		}
		for i := range universe {
			idx <- i
		}
		close(idx)
		wg.Wait()
	}

	out := make([]T, 0, len(universe))
	for _, s := range slots {
		if s.ok {
			out = append(out, s.val)
		}
	}
	return out
}
