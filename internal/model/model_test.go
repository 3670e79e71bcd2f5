package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan2 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func bars(n int) Series {
	out := make(Series, n)
	for i := range out {
		c := 10 + float64(i)
		out[i] = OHLCV{Time: jan2.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 100}
	}
	return out
}

func TestSeries_Validate(t *testing.T) {
	s := bars(3)
	assert.NoError(t, s.Validate())

	s[2].Time = s[1].Time.Add(6 * time.Hour)
	assert.Error(t, s.Validate())
}

func TestTable_SetSortsAndSeriesDropsInvalid(t *testing.T) {
	s := bars(4)
	s[0], s[3] = s[3], s[0]
	s[1].Close = math.NaN()

	table := NewTable()
	table.Set("AAA", s)
	got := table.Series("AAA")
	require.Len(t, got, 3)
	assert.NoError(t, got.Validate())
	assert.Len(t, table.Bars["AAA"], 4)
	assert.Empty(t, table.Series("ZZZ"))
	assert.False(t, table.Has("ZZZ"))
}

func TestTable_UntilAndDates(t *testing.T) {
	table := NewTable()
	table.Set("AAA", bars(5))
	table.Set("BBB", bars(3))

	latest, ok := table.LatestDate()
	require.True(t, ok)
	assert.Equal(t, jan2.AddDate(0, 0, 4), latest)
	assert.Len(t, table.Dates(), 5)

	cut := table.Until(jan2.AddDate(0, 0, 1).Add(20 * time.Hour))
	assert.Len(t, cut.Bars["AAA"], 2)
	assert.Len(t, cut.Bars["BBB"], 2)
	assert.Len(t, table.Bars["AAA"], 5)

	_, ok = NewTable().LatestDate()
	assert.False(t, ok)
}

func TestFrame_IndexOf(t *testing.T) {
	f := Frame{{OHLCV: bars(2)[0]}, {OHLCV: bars(2)[1]}}
	assert.Equal(t, 1, f.IndexOf(jan2.AddDate(0, 0, 1).Add(9*time.Hour)))
	assert.Equal(t, -1, f.IndexOf(jan2.AddDate(0, 0, 7)))
}

func TestReasons(t *testing.T) {
	var r Reasons
	assert.Equal(t, "", r.String())
	r.Add(ReasonPriceBelowMin)
	r.Add(ReasonBelowSMA50)
	assert.Equal(t, "price_below_min,below_sma50", r.String())
	assert.True(t, r.Has(ReasonBelowSMA50))
	assert.False(t, r.Has(ReasonNoBreakout))
}
