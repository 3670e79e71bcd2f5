package strategy

import (
	"testing"

	"BreakoutSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreen_Rules(t *testing.T) {
	tests := []struct {
		name    string
		bars    model.Series
		passed  bool
		reasons string
	}{
		{"passes", linearSeries(70, 100, 130, 1_000_000), true, ""},
		{"price floor", linearSeries(70, 2, 2.5, 1_000_000), false, "price_below_min"},
		{"liquidity floor", linearSeries(70, 100, 130, 10_000), false, "volume_below_min"},
		{"trend filter", linearSeries(70, 130, 100, 1_000_000), false, "below_sma50"},
		{"all rules fail together", linearSeries(70, 2.5, 2, 10_000), false, "price_below_min,volume_below_min,below_sma50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := Screen("TEST", frameOf(tt.bars), DefaultScreenerRules())
			require.True(t, ok)
			assert.Equal(t, "TEST", res.Symbol)
			assert.Equal(t, tt.passed, res.Passed)
			assert.Equal(t, tt.reasons, res.Reasons.String())
		})
	}
}

func TestScreen_PriceRuleIndependentOfVolumeAndTrend(t *testing.T) {
	for _, vol := range []float64{10_000, 5_000_000} {
		for _, bars := range []model.Series{linearSeries(70, 2, 2.9, vol), linearSeries(70, 2.9, 2, vol)} {
			res, ok := Screen("TEST", frameOf(bars), DefaultScreenerRules())
			require.True(t, ok)
			assert.False(t, res.Passed)
			assert.True(t, res.Reasons.Has(model.ReasonPriceBelowMin))
		}
	}
}

func TestScreen_EchoesDecisionRow(t *testing.T) {
	bars := linearSeries(70, 100, 169, 1_000_000)
	res, ok := Screen("TEST", frameOf(bars), DefaultScreenerRules())
	require.True(t, ok)
	assert.Equal(t, 169.0, res.Close)
	require.NotNil(t, res.SMA50)
	assert.InDelta(t, 144.5, *res.SMA50, 1e-9)
	require.NotNil(t, res.AvgVol50)
	assert.InDelta(t, 1_000_000, *res.AvgVol50, 1e-6)
}

func TestScreen_NullIndicatorsFail(t *testing.T) {
	// 20 bars: sma50 and avgvol50 are undefined on the decision row.
	res, ok := Screen("TEST", frameOf(linearSeries(20, 100, 130, 1_000_000)), DefaultScreenerRules())
	require.True(t, ok)
	assert.False(t, res.Passed)
	assert.Equal(t, "volume_below_min,below_sma50", res.Reasons.String())
	assert.Nil(t, res.SMA50)
	assert.Nil(t, res.AvgVol50)
	assert.InDelta(t, 130.0, res.Close, 1e-9)
}

func TestScreen_EmptyFrame(t *testing.T) {
	_, ok := Screen("TEST", nil, DefaultScreenerRules())
	assert.False(t, ok)
}
