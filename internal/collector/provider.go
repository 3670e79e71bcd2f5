package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"BreakoutSentinel/internal/model"

	"github.com/rs/zerolog"
)

// ErrNoData is returned when a provider yields no rows for any requested symbol.
var ErrNoData = errors.New("no data returned")

// Provider fetches daily OHLCV history for a universe.
type Provider interface {
	Fetch(ctx context.Context, universe []string, period, interval string) (*model.Table, error)
	Name() string
}

type seriesFunc func(ctx context.Context, symbol, period, interval string) (model.Series, error)

// collect fetches symbols one by one. A failing symbol is logged and left out
// of the table, the same as a symbol the provider does not know.
func collect(ctx context.Context, log zerolog.Logger, universe []string, period, interval string, fetch seriesFunc) (*model.Table, error) {
	table := model.NewTable()
	for _, symbol := range universe {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := fetch(ctx, symbol, period, interval)
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("fetch failed, skipping")
			continue
		}
		if len(bars) == 0 {
			continue
		}
		table.Set(symbol, bars)
		if err := table.Bars[symbol].Validate(); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("bad series, skipping")
			delete(table.Bars, symbol)
		}
	}
	if len(table.Bars) == 0 {
		return nil, fmt.Errorf("fetch %d symbols: %w", len(universe), ErrNoData)
	}
	return table, nil
}

// periodDays converts a period such as "6mo", "1y" or "90d" into calendar days.
func periodDays(period string) (int, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	units := []struct {
		suffix string
		days   int
	}{
		{"mo", 30},
		{"wk", 7},
		{"y", 365},
		{"d", 1},
	}
	for _, u := range units {
		if !strings.HasSuffix(p, u.suffix) {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(strings.TrimSuffix(p, u.suffix), "%d", &n); err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid period %q", period)
		}
		return n * u.days, nil
	}
	return 0, fmt.Errorf("invalid period %q", period)
}
