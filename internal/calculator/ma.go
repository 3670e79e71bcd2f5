package calculator

import (
	"errors"
	"math"

	"BreakoutSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RollingMean returns the trailing mean of values over window for every index.
// Entries before the window is full are nil.
func RollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		sma, _ := CalculateSMA(values[:i+1], window)
		out[i] = model.Float(sma)
	}
	return out
}

// PctChange returns values[i]/values[i-lag] - 1 for every index.
// Entries without lag prior values are nil. A zero base yields a signed
// infinity, or nil when the current value is zero too.
func PctChange(values []float64, lag int) []*float64 {
	out := make([]*float64, len(values))
	if lag <= 0 {
		return out
	}
	for i := lag; i < len(values); i++ {
		base := values[i-lag]
		if base == 0 {
			switch {
			case values[i] > 0:
				out[i] = model.Float(math.Inf(1))
			case values[i] < 0:
				out[i] = model.Float(math.Inf(-1))
			}
			continue
		}
		out[i] = model.Float(values[i]/base - 1)
	}
	return out
}

func extractCloses(bars model.Series) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func extractVolumes(bars model.Series) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}

func extractHighs(bars model.Series) []float64 {
	highs := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
	}
	return highs
}
