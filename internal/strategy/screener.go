package strategy

import "BreakoutSentinel/internal/model"

// Screen evaluates the eligibility rules against the last row of frame.
// Every rule is evaluated; ok is false when the frame is empty.
func Screen(symbol string, frame model.Frame, rules ScreenerRules) (res model.ScreenResult, ok bool) {
	latest, ok := frame.Last()
	if !ok {
		return model.ScreenResult{}, false
	}

	var reasons model.Reasons
	if latest.Close < rules.MinPrice {
		reasons.Add(model.ReasonPriceBelowMin)
	}
	if below(latest.AvgVol50, rules.MinAvgVolume) {
		reasons.Add(model.ReasonVolumeBelowMin)
	}
	if notAbove(latest.Close, latest.SMA50) {
		reasons.Add(model.ReasonBelowSMA50)
	}

	return model.ScreenResult{
		Symbol:   symbol,
		Passed:   len(reasons) == 0,
		Reasons:  reasons,
		Close:    latest.Close,
		AvgVol50: latest.AvgVol50,
		SMA50:    latest.SMA50,
	}, true
}
