package strategy

import (
	"time"

	"BreakoutSentinel/internal/model"
)

// Execute sizes a position from the as-of bar and scans later bars for the
// first close under the 10-day SMA. frame must cover the full history,
// including bars after asOf.
func Execute(symbol string, frame model.Frame, asOf time.Time, sizing Sizing) model.ExecutionResult {
	idx := frame.IndexOf(asOf)
	if idx < 0 {
		return model.ExecutionResult{
			Symbol:  symbol,
			Reasons: model.Reasons{model.ReasonSignalDateMissing},
			Status:  model.StatusOpen,
		}
	}

	bar := frame[idx]
	entry := bar.Close
	stop := bar.Low
	stopDistance := entry - stop

	var reasons model.Reasons
	if stopDistance <= 0 {
		reasons.Add(model.ReasonInvalidStopDist)
	}
	if bar.ATR14 == nil {
		reasons.Add(model.ReasonATRMissing)
	} else if stopDistance > *bar.ATR14 {
		reasons.Add(model.ReasonStopDistanceGtATR)
	}

	risk := sizing.RiskDollars()
	res := model.ExecutionResult{
		Symbol:       symbol,
		Valid:        len(reasons) == 0,
		Reasons:      reasons,
		EntryPrice:   model.Float(entry),
		StopPrice:    model.Float(stop),
		StopDistance: model.Float(stopDistance),
		ATR14:        bar.ATR14,
		RiskDollars:  model.Float(risk),
		Status:       model.StatusOpen,
	}
	// Size is withheld on any validity failure; stopDistance > 0 is implied.
	if res.Valid {
		res.PositionSize = model.Float(risk / stopDistance)
	}

	if exit, ok := firstExit(frame[idx+1:]); ok {
		res.ExitTrigger = true
		res.ExitPrice = model.Float(exit.Close)
		exitDate := exit.Time
		res.ExitDate = &exitDate
		res.Status = model.StatusExit
	}
	return res
}

// firstExit returns the first row closing below a defined SMA10.
func firstExit(future model.Frame) (model.FrameRow, bool) {
	for _, row := range future {
		if row.SMA10 != nil && row.Close < *row.SMA10 {
			return row, true
		}
	}
	return model.FrameRow{}, false
}
