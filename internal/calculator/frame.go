package calculator

import "BreakoutSentinel/internal/model"

// Indicator windows.
const (
	SlowSMAPeriod   = 50
	FastSMAPeriod   = 10
	AvgVolumePeriod = 50
	ATRPeriod       = 14
	LookbackPeriod  = 63
)

// Enrich derives the indicator frame for one symbol's series.
// The input is not modified; the frame has one row per input bar.
func Enrich(bars model.Series) model.Frame {
	closes := extractCloses(bars)
	highs := extractHighs(bars)

	sma50 := RollingMean(closes, SlowSMAPeriod)
	sma10 := RollingMean(closes, FastSMAPeriod)
	avgVol := RollingMean(extractVolumes(bars), AvgVolumePeriod)
	atr := ATR(bars, ATRPeriod)
	pct := PctChange(closes, LookbackPeriod)
	peak := RollingMax(highs, LookbackPeriod)

	frame := make(model.Frame, len(bars))
	for i, b := range bars {
		frame[i] = model.FrameRow{
			OHLCV:       b,
			SMA50:       sma50[i],
			SMA10:       sma10[i],
			AvgVol50:    avgVol[i],
			ATR14:       atr[i],
			PctChange63: pct[i],
			Peak63:      peak[i],
		}
	}
	return frame
}
