package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"BreakoutSentinel/internal/model"

	"github.com/rs/zerolog"
)

// VsTraderProvider implements Provider using the vstrader REST API.
type VsTraderProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Log     zerolog.Logger
}

// NewVsTraderProvider creates a new provider with optional proxy support.
func NewVsTraderProvider(baseURL, apiKey, proxyURL string, log zerolog.Logger) *VsTraderProvider {
	return &VsTraderProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		Log:     log,
	}
}

func (f *VsTraderProvider) Name() string { return "vstrader" }

// vsBar is the expected JSON shape from the vstrader API.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Fetch downloads bars for every symbol in universe. The API is limited by
// bar count, so period is converted to a trading-day limit.
func (f *VsTraderProvider) Fetch(ctx context.Context, universe []string, period, interval string) (*model.Table, error) {
	days, err := periodDays(period)
	if err != nil {
		return nil, fmt.Errorf("vstrader: %w", err)
	}
	return collect(ctx, f.Log, universe, period, interval, func(ctx context.Context, symbol, _, interval string) (model.Series, error) {
		switch interval {
		case "", "1d":
			return f.fetchDaily(ctx, symbol, tradingDays(days))
		case "1wk":
			return f.fetchWeekly(ctx, symbol, days/7)
		default:
			return nil, fmt.Errorf("vstrader: unsupported interval %q", interval)
		}
	})
}

// tradingDays approximates the number of sessions in a calendar-day span.
func tradingDays(calendarDays int) int {
	return calendarDays * 252 / 365
}

func (f *VsTraderProvider) fetchDaily(ctx context.Context, symbol string, limit int) (model.Series, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), limit)
	return f.fetchBars(ctx, endpoint)
}

func (f *VsTraderProvider) fetchWeekly(ctx context.Context, symbol string, weeks int) (model.Series, error) {
	// Try weekly endpoint first; if API only provides daily, aggregate internally.
	endpoint := fmt.Sprintf("%s/api/v1/bars/weekly?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), weeks)
	bars, err := f.fetchBars(ctx, endpoint)
	if err != nil {
		daily, dailyErr := f.fetchDaily(ctx, symbol, weeks*5)
		if dailyErr != nil {
			return nil, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr)
		}
		return aggregateDailyToWeekly(daily), nil
	}
	return bars, nil
}

func (f *VsTraderProvider) fetchBars(ctx context.Context, endpoint string) (model.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var vsBars []vsBar
	if err := json.NewDecoder(resp.Body).Decode(&vsBars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make(model.Series, len(vsBars))
	for i, vb := range vsBars {
		bars[i] = model.OHLCV{
			Time:   model.Day(time.Unix(vb.Timestamp, 0)),
			Open:   vb.Open,
			High:   vb.High,
			Low:    vb.Low,
			Close:  vb.Close,
			Volume: vb.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// aggregateDailyToWeekly converts daily bars into ISO-week bars dated by the
// first session of the week.
func aggregateDailyToWeekly(daily model.Series) model.Series {
	if len(daily) == 0 {
		return nil
	}
	var weekly model.Series
	week := daily[0]
	wy, ww := week.Time.ISOWeek()

	for _, d := range daily[1:] {
		if y, w := d.Time.ISOWeek(); y != wy || w != ww {
			weekly = append(weekly, week)
			week = d
			wy, ww = y, w
			continue
		}
		week.High = max(week.High, d.High)
		week.Low = min(week.Low, d.Low)
		week.Close = d.Close
		week.Volume += d.Volume
	}
	return append(weekly, week)
}
