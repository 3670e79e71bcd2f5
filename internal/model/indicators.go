package model

import "time"

// FrameRow is one bar extended with derived indicators.
// A nil indicator means the trailing window was not yet full.
type FrameRow struct {
	OHLCV

	SMA50       *float64
	SMA10       *float64
	AvgVol50    *float64
	ATR14       *float64
	PctChange63 *float64
	Peak63      *float64
}

// Frame is an enriched Series: same length, same order.
type Frame []FrameRow

// Last returns the final row of the frame.
func (f Frame) Last() (FrameRow, bool) {
	if len(f) == 0 {
		return FrameRow{}, false
	}
	return f[len(f)-1], true
}

// IndexOf returns the position of the row dated on the same calendar day as t, or -1.
func (f Frame) IndexOf(t time.Time) int {
	for i := range f {
		if SameDay(f[i].Time, t) {
			return i
		}
	}
	return -1
}

// Float returns a pointer to a copy of v.
func Float(v float64) *float64 {
	return &v
}
