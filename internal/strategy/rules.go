package strategy

// ScreenerRules are the coarse eligibility thresholds.
type ScreenerRules struct {
	MinPrice     float64
	MinAvgVolume float64
}

// DefaultScreenerRules returns the standard price and liquidity floors.
func DefaultScreenerRules() ScreenerRules {
	return ScreenerRules{
		MinPrice:     3.0,
		MinAvgVolume: 300_000,
	}
}

// SignalRules parameterise the run-up / consolidation / breakout pattern.
// The lookback is fixed by calculator.LookbackPeriod.
type SignalRules struct {
	MinRise        float64 // minimum pct_change_63
	MinTreadDays   int
	MaxTreadDays   int
	MaxRetracement float64 // exclusive upper bound on pullback depth
}

// DefaultSignalRules returns the standard breakout pattern thresholds.
func DefaultSignalRules() SignalRules {
	return SignalRules{
		MinRise:        0.30,
		MinTreadDays:   4,
		MaxTreadDays:   40,
		MaxRetracement: 0.25,
	}
}

// Sizing holds the account parameters for risk-based position sizing.
type Sizing struct {
	AccountEquity float64
	RiskPct       float64
}

// DefaultSizing risks 2% of a 100k account per trade.
func DefaultSizing() Sizing {
	return Sizing{
		AccountEquity: 100_000,
		RiskPct:       0.02,
	}
}

// RiskDollars is the amount lost if the stop is hit.
func (s Sizing) RiskDollars() float64 {
	return s.AccountEquity * s.RiskPct
}

// below reports whether v fails a "must be at least min" rule.
// A nil value is undefined and fails.
func below(v *float64, min float64) bool {
	return v == nil || *v < min
}

// notAbove reports whether x fails a "must be strictly above ref" rule.
// A nil reference is undefined and fails.
func notAbove(x float64, ref *float64) bool {
	return ref == nil || x <= *ref
}
