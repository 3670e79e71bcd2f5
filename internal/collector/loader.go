package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"BreakoutSentinel/internal/model"

	"github.com/rs/zerolog"
)

// Loader serves the OHLCV table from cache while it is fresh and refetches
// from the provider otherwise.
type Loader struct {
	Provider Provider
	Cache    Cache // nil disables caching
	Period   string
	Interval string
	Log      zerolog.Logger
	Now      func() time.Time
}

// NewLoader creates a loader with the daily one-year defaults.
func NewLoader(provider Provider, cache Cache, log zerolog.Logger) *Loader {
	return &Loader{
		Provider: provider,
		Cache:    cache,
		Period:   "1y",
		Interval: "1d",
		Log:      log,
		Now:      time.Now,
	}
}

// Load returns the table for universe. refresh skips the cache and replaces it.
func (l *Loader) Load(ctx context.Context, universe []string, refresh bool) (*model.Table, error) {
	if l.Cache != nil && !refresh {
		cached, err := l.Cache.Load(ctx)
		switch {
		case err == nil && l.fresh(cached):
			l.Log.Debug().Msg("using cached ohlcv")
			return cached, nil
		case err == nil:
			l.Log.Info().Msg("cached ohlcv is stale, refetching")
		case errors.Is(err, ErrCacheMiss):
			l.Log.Info().Msg("no cached ohlcv, fetching")
		default:
			l.Log.Warn().Err(err).Msg("cache load failed, fetching")
		}
	}

	table, err := l.Provider.Fetch(ctx, universe, l.Period, l.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch from %s: %w", l.Provider.Name(), err)
	}
	l.Log.Info().
		Str("provider", l.Provider.Name()).
		Int("symbols", len(table.Bars)).
		Int("requested", len(universe)).
		Msg("ohlcv fetched")

	if l.Cache != nil {
		if err := l.Cache.Store(ctx, table); err != nil {
			l.Log.Warn().Err(err).Msg("cache store failed")
		}
	}
	return table, nil
}

// fresh reports whether the cached table already holds today's bar.
func (l *Loader) fresh(table *model.Table) bool {
	latest, ok := table.LatestDate()
	if !ok {
		return false
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	y, m, d := now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return !latest.Before(today)
}
