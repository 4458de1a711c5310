package signals

import (
	"testing"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/indicators"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticSeries(n int, start, drift float64) domain.BarSeries {
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

func TestRegistry_DetectAll_OrdersByCategoryThenTime(t *testing.T) {
	series := syntheticSeries(220, 100, 1.0) // strong sustained uptrend
	cfg := testConfig(t)
	frame := indicators.CalculateAll(series, cfg)

	registry := NewPopulatedRegistry(zerolog.Nop())
	out := registry.DetectAll(frame, cfg)
	require.NotEmpty(t, out)

	for i := 1; i < len(out); i++ {
		oPrev := domain.CategoryOrder(out[i-1].Category)
		oCur := domain.CategoryOrder(out[i].Category)
		assert.LessOrEqual(t, oPrev, oCur, "signals must be grouped by category order")
	}
}

func TestRSIDetector_OversoldOnSustainedDecline(t *testing.T) {
	series := syntheticSeries(40, 200, -2.0)
	cfg := testConfig(t)
	frame := indicators.CalculateAll(series, cfg)

	out := RSIDetector{}.Detect(frame, cfg)
	require.NotEmpty(t, out)
	assert.Contains(t, []string{"rsi_oversold", "rsi_extreme_oversold"}, out[0].Name)
}

func TestVolumeDetector_SpikeDetected(t *testing.T) {
	series := syntheticSeries(30, 100, 0.1)
	series.Bars[len(series.Bars)-1].Volume = 5_000_000
	cfg := testConfig(t)
	frame := indicators.CalculateAll(series, cfg)

	out := VolumeDetector{}.Detect(frame, cfg)
	require.Len(t, out, 1)
	assert.Equal(t, "volume_extreme_spike", out[0].Name)
}
