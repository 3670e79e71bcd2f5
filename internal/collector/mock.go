package collector

import (
	"context"
	"time"

	"BreakoutSentinel/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
// Symbols without an entry in Bars get a generated drifting series.
type MockProvider struct {
	Price float64
	Days  int
	Bars  map[string]model.Series
	Err   error
	Calls int
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Fetch(ctx context.Context, universe []string, _, _ string) (*model.Table, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table := model.NewTable()
	for _, symbol := range universe {
		if bars, ok := m.Bars[symbol]; ok {
			table.Set(symbol, bars)
			continue
		}
		if m.Price > 0 {
			table.Set(symbol, generateMockBars(m.Price, m.days(), time.Now()))
		}
	}
	if len(table.Bars) == 0 {
		return nil, ErrNoData
	}
	return table, nil
}

func (m *MockProvider) days() int {
	if m.Days > 0 {
		return m.Days
	}
	return 252
}

// generateMockBars produces count daily bars ending on end's date.
func generateMockBars(basePrice float64, count int, end time.Time) model.Series {
	last := model.Day(end)
	bars := make(model.Series, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   last.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
