package model

import (
	"strings"
	"time"
)

// Reason codes emitted by the screener, signaller and executor.
const (
	ReasonPriceBelowMin     = "price_below_min"
	ReasonVolumeBelowMin    = "volume_below_min"
	ReasonBelowSMA50        = "below_sma50"
	ReasonInsufficientHist  = "insufficient_history"
	ReasonRiserBelow30Pct   = "riser_below_30pct"
	ReasonTreadWindowRange  = "tread_window_outside_range"
	ReasonTreadRetracement  = "tread_retracement_too_large"
	ReasonNoBreakout        = "no_breakout"
	ReasonSignalDateMissing = "signal_date_missing"
	ReasonInvalidStopDist   = "invalid_stop_distance"
	ReasonATRMissing        = "atr_missing"
	ReasonStopDistanceGtATR = "stop_distance_gt_atr"
)

// Reasons is an ordered list of failed-rule codes.
type Reasons []string

// Add appends a code.
func (r *Reasons) Add(code string) {
	*r = append(*r, code)
}

// Has reports whether code is present.
func (r Reasons) Has(code string) bool {
	for _, c := range r {
		if c == code {
			return true
		}
	}
	return false
}

// String joins the codes with commas; empty when no rule failed.
func (r Reasons) String() string {
	return strings.Join(r, ",")
}

// ScreenResult is the screener's verdict for one symbol.
type ScreenResult struct {
	Symbol   string
	Passed   bool
	Reasons  Reasons
	Close    float64
	AvgVol50 *float64
	SMA50    *float64
}

// SignalResult is the signaller's verdict for one symbol.
type SignalResult struct {
	Symbol      string
	Signal      bool
	Reasons     Reasons
	EntryPrice  *float64
	Peak63      *float64
	Retracement *float64
}

// PositionStatus tells whether an executed setup has hit its exit.
type PositionStatus string

const (
	StatusOpen PositionStatus = "OPEN"
	StatusExit PositionStatus = "EXIT"
)

// ExecutionResult holds entry, stop, sizing and exit for one signalled symbol.
type ExecutionResult struct {
	Symbol       string
	Valid        bool
	Reasons      Reasons
	EntryPrice   *float64
	StopPrice    *float64
	StopDistance *float64
	ATR14        *float64
	RiskDollars  *float64
	PositionSize *float64
	ExitTrigger  bool
	ExitPrice    *float64
	ExitDate     *time.Time
	Status       PositionStatus
}

// RunResult bundles the three result tables of one pipeline run.
type RunResult struct {
	RunID      string
	AsOf       time.Time
	Universe   []string
	Screens    []ScreenResult
	Signals    []SignalResult
	Executions []ExecutionResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Passed returns the symbols that cleared the screener.
func (r *RunResult) Passed() []string {
	var out []string
	for _, s := range r.Screens {
		if s.Passed {
			out = append(out, s.Symbol)
		}
	}
	return out
}

// Fired returns the symbols with a buy signal.
func (r *RunResult) Fired() []string {
	var out []string
	for _, s := range r.Signals {
		if s.Signal {
			out = append(out, s.Symbol)
		}
	}
	return out
}
