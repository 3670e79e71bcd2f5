package model

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Valid reports whether every price and volume field is a finite number.
func (b OHLCV) Valid() bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// Series is the ordered daily history of one symbol.
type Series []OHLCV

// Validate checks that dates are strictly increasing.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !Day(s[i].Time).After(Day(s[i-1].Time)) {
			return fmt.Errorf("bar %d (%s) not after bar %d (%s)",
				i, s[i].Time.Format("2006-01-02"), i-1, s[i-1].Time.Format("2006-01-02"))
		}
	}
	return nil
}

// Table holds raw OHLCV history for a universe, keyed by symbol.
type Table struct {
	Bars map[string]Series
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{Bars: make(map[string]Series)}
}

// Set stores the series for a symbol, sorted by date.
func (t *Table) Set(symbol string, s Series) {
	sorted := make(Series, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	t.Bars[symbol] = sorted
}

// Has reports whether the table carries any rows for symbol.
func (t *Table) Has(symbol string) bool {
	if t == nil {
		return false
	}
	_, ok := t.Bars[symbol]
	return ok
}

// Symbols returns the symbols present in the table in lexical order.
func (t *Table) Symbols() []string {
	out := make([]string, 0, len(t.Bars))
	for sym := range t.Bars {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Series returns the valid rows for symbol; rows with missing fields are dropped.
func (t *Table) Series(symbol string) Series {
	if t == nil {
		return nil
	}
	raw := t.Bars[symbol]
	out := make(Series, 0, len(raw))
	for _, b := range raw {
		if b.Valid() {
			out = append(out, b)
		}
	}
	return out
}

// Until returns a copy of the table holding only rows dated on or before asOf.
func (t *Table) Until(asOf time.Time) *Table {
	cut := Day(asOf)
	out := NewTable()
	for sym, s := range t.Bars {
		n := sort.Search(len(s), func(i int) bool { return Day(s[i].Time).After(cut) })
		kept := make(Series, n)
		copy(kept, s[:n])
		out.Bars[sym] = kept
	}
	return out
}

// Dates returns every distinct calendar date in the table, ascending.
func (t *Table) Dates() []time.Time {
	seen := make(map[time.Time]struct{})
	for _, s := range t.Bars {
		for _, b := range s {
			seen[Day(b.Time)] = struct{}{}
		}
	}
	out := make([]time.Time, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// LatestDate returns the most recent calendar date in the table.
func (t *Table) LatestDate() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, s := range t.Bars {
		if len(s) == 0 {
			continue
		}
		d := Day(s[len(s)-1].Time)
		if !found || d.After(latest) {
			latest = d
			found = true
		}
	}
	return latest, found
}
