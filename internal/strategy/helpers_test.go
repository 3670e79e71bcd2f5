package strategy

import (
	"time"

	"BreakoutSentinel/internal/calculator"
	"BreakoutSentinel/internal/model"
)

var day0 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func bar(i int, close float64) model.OHLCV {
	return model.OHLCV{
		Time:   day0.AddDate(0, 0, i),
		Open:   close,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: 1_000_000,
	}
}

// linearSeries closes move linearly from start to end over rows bars.
func linearSeries(rows int, start, end, volume float64) model.Series {
	bars := make(model.Series, rows)
	step := (end - start) / float64(rows-1)
	for i := range bars {
		bars[i] = bar(i, start+step*float64(i))
		bars[i].Volume = volume
	}
	return bars
}

// breakoutSeries is a 70-bar textbook setup: a strictly rising run-up from
// 100 to 150 over bars 0..63, a five-bar consolidation at 145, and a close of
// 155 on the last bar.
func breakoutSeries() model.Series {
	bars := make(model.Series, 0, 70)
	for i := 0; i <= 63; i++ {
		bars = append(bars, bar(i, 100+50*float64(i)/63))
	}
	for i := 64; i <= 68; i++ {
		bars = append(bars, bar(i, 145))
	}
	return append(bars, bar(69, 155))
}

func frameOf(bars model.Series) model.Frame {
	return calculator.Enrich(bars)
}
