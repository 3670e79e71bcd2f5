package calculator

import (
	"math"

	"BreakoutSentinel/internal/model"
)

// TrueRange returns the true range of every bar. The first bar has no
// previous close, so its true range is High-Low.
func TrueRange(bars model.Series) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			out[i] = b.High - b.Low
			continue
		}
		prevClose := bars[i-1].Close
		out[i] = math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
	}
	return out
}

// ATR returns the simple (not Wilder-smoothed) rolling mean of true range.
func ATR(bars model.Series, period int) []*float64 {
	return RollingMean(TrueRange(bars), period)
}
