package calculator

import (
	"errors"
	"math"

	"BreakoutSentinel/internal/model"
)

// RollingMax returns the trailing maximum of values over window, current index included.
// Entries before the window is full are nil.
func RollingMax(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		high := math.Inf(-1)
		for j := i - window + 1; j <= i; j++ {
			if values[j] > high {
				high = values[j]
			}
		}
		out[i] = model.Float(high)
	}
	return out
}

// PeakHigh returns the highest High in bars and the index of its first occurrence.
func PeakHigh(bars []model.FrameRow) (high float64, pos int, err error) {
	if len(bars) == 0 {
		return 0, -1, errors.New("no bars provided")
	}
	high = math.Inf(-1)
	pos = -1
	for i, b := range bars {
		if b.High > high {
			high = b.High
			pos = i
		}
	}
	return high, pos, nil
}

// TroughLow returns the lowest Low in bars.
func TroughLow(bars []model.FrameRow) (float64, error) {
	if len(bars) == 0 {
		return 0, errors.New("no bars provided")
	}
	low := math.Inf(1)
	for _, b := range bars {
		if b.Low < low {
			low = b.Low
		}
	}
	return low, nil
}

// Retracement returns the fractional pullback from peak to trough.
// A zero peak yields 1.0.
func Retracement(peak, trough float64) float64 {
	if peak == 0 {
		return 1.0
	}
	return (peak - trough) / peak
}
