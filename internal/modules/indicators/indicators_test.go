package indicators

import (
	"testing"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticSeries(n int, start float64, drift float64) domain.BarSeries {
	bars := make([]domain.Bar, n)
	price := start
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price += drift
		bars[i] = domain.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price - 0.2,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
			Volume:    1_000_000,
		}
	}
	return domain.BarSeries{Symbol: "TEST", Period: domain.Period1d, Bars: bars}
}

func testConfig(t *testing.T) profile.ConfigContext {
	t.Helper()
	cfg, err := profile.Resolve(profile.Neutral, nil)
	require.NoError(t, err)
	return cfg.Flatten()
}

func TestCalculateAll_WarmupColumnsAreUndefined(t *testing.T) {
	series := syntheticSeries(30, 100, 0.1)
	frame := CalculateAll(series, testConfig(t))

	sma20 := frame.SMA[20]
	for i := 0; i < 19; i++ {
		assert.False(t, domain.Defined(sma20[i]), "index %d should be undefined", i)
	}
	assert.True(t, domain.Defined(sma20[19]))
}

func TestCalculateAll_RSIZeroLossDoesNotProduceNaNOrInf(t *testing.T) {
	// Strictly rising closes: every delta in the RSI window is a gain, so
	// avgLoss is exactly zero and the epsilon fix must be exercised.
	series := syntheticSeries(40, 100, 1.0)
	frame := CalculateAll(series, testConfig(t))

	last, ok := domain.At(frame.RSI)
	require.True(t, ok)
	assert.False(t, last != last, "RSI must not be NaN")
	assert.Less(t, last, 101.0)
	assert.Greater(t, last, 90.0)
}

func TestCalculateAll_BBWidthNamingIsCanonical(t *testing.T) {
	series := syntheticSeries(40, 100, 0.0)
	frame := CalculateAll(series, testConfig(t))

	// BBMiddle is the one and only canonical name; no BB_Mid alias exists
	// anywhere on IndicatorFrame.
	assert.NotNil(t, frame.BBMiddle)
	last, ok := domain.At(frame.BBMiddle)
	require.True(t, ok)
	assert.Greater(t, last, 0.0)
}

func TestCalculateAll_OBVHasNoWarmupGap(t *testing.T) {
	series := syntheticSeries(10, 100, 0.5)
	frame := CalculateAll(series, testConfig(t))

	for i, v := range frame.OBV {
		assert.True(t, domain.Defined(v), "OBV index %d should be defined from bar 0", i)
	}
}

func TestCalculateAll_PercentChangeUndefinedBeforeLag(t *testing.T) {
	series := syntheticSeries(10, 100, 1.0)
	frame := CalculateAll(series, testConfig(t))

	assert.False(t, domain.Defined(frame.Change5D[3]))
	assert.True(t, domain.Defined(frame.Change5D[5]))
}
