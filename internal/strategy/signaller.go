package strategy

import (
	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/model"
)

// Signal looks for a >=30% run-up over the lookback, a short shallow
// consolidation after the lookback peak, and a close above that peak on the
// last bar. The last row of frame is the decision bar.
func Signal(symbol string, frame model.Frame, rules SignalRules) model.SignalResult {
	n := len(frame)
	if n < calculator.LookbackPeriod+1 {
		return model.SignalResult{
			Symbol:  symbol,
			Reasons: model.Reasons{model.ReasonInsufficientHist},
		}
	}

	latest := frame[n-1]
	prior := frame[n-1-calculator.LookbackPeriod : n-1]
	var reasons model.Reasons

	// A: riser
	if below(latest.PctChange63, rules.MinRise) {
		reasons.Add(model.ReasonRiserBelow30Pct)
	}

	// B: tread duration, counted from the first occurrence of the peak
	peak, pos, _ := calculator.PeakHigh(prior)
	consolidation := prior[pos+1:]
	days := len(consolidation)
	if days < rules.MinTreadDays || days > rules.MaxTreadDays {
		reasons.Add(model.ReasonTreadWindowRange)
	}

	// C: tread depth; unmeasured when the peak is the last prior bar
	var retracement *float64
	if days >= 1 {
		trough, _ := calculator.TroughLow(consolidation)
		retracement = model.Float(calculator.Retracement(peak, trough))
		if *retracement >= rules.MaxRetracement {
			reasons.Add(model.ReasonTreadRetracement)
		}
	}

	// D: breakout
	if latest.Close <= peak {
		reasons.Add(model.ReasonNoBreakout)
	}

	res := model.SignalResult{
		Symbol:      symbol,
		Signal:      len(reasons) == 0,
		Reasons:     reasons,
		Peak63:      model.Float(peak),
		Retracement: retracement,
	}
	if res.Signal {
		res.EntryPrice = model.Float(latest.Close)
	}
	return res
}
