package analysis

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/aristath/chartwatch/internal/modules/ranking"
	"github.com/aristath/chartwatch/internal/modules/signals"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	series      domain.BarSeries
	err         error
	fetchCount  int
}

func (f *fakeProvider) FetchBars(ctx context.Context, symbol string, period domain.Period) (domain.BarSeries, error) {
	f.fetchCount++
	if f.err != nil {
		return domain.BarSeries{}, f.err
	}
	return f.series, nil
}

func oscillatingSeries(n int, start, drift, amplitude, wavelength float64) domain.BarSeries {
	bars := make([]domain.Bar, n)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		trend := start + drift*float64(i)
		wave := amplitude * math.Sin(float64(i)/wavelength)
		close := trend + wave
		bars[i] = domain.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      close - amplitude*0.05,
			High:      close + amplitude*0.15 + 0.1,
			Low:       close - amplitude*0.15 - 0.1,
			Close:     close,
			Volume:    1_000_000,
		}
	}
	return domain.BarSeries{Symbol: "TEST", Period: domain.Period1d, Bars: bars}
}

func newAnalyzer(provider *fakeProvider, cache *Cache) *Analyzer {
	return New(provider, signals.NewPopulatedRegistry(zerolog.Nop()), ranking.RuleBasedRanker{}, cache, zerolog.Nop())
}

func TestAnalyzeSecurity_RejectsInvalidPeriod(t *testing.T) {
	a := newAnalyzer(&fakeProvider{}, nil)
	_, err := a.AnalyzeSecurity(context.Background(), "AAPL", domain.Period("3w"), profile.Neutral, nil)
	require.Error(t, err)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeInvalidPeriod, derr.Code)
}

func TestAnalyzeSecurity_InsufficientDataBelowMinimumLength(t *testing.T) {
	// Shorter than even the shortest configured indicator lookback
	// (MACD's 12-bar fast leg): no indicator column can produce a value
	// at all, so the whole analysis is rejected.
	provider := &fakeProvider{series: oscillatingSeries(5, 100, 0.1, 1, 9)}
	a := newAnalyzer(provider, nil)
	_, err := a.AnalyzeSecurity(context.Background(), "AAPL", domain.Period1d, profile.Neutral, nil)
	require.Error(t, err)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeInsufficientData, derr.Code)
}

func TestAnalyzeSecurity_ShortSeriesSucceedsWithLongPeriodColumnsAbsent(t *testing.T) {
	// 50 bars is enough for RSI-14, MACD, Bollinger-20, Stochastic-14,
	// ADX-14, and ATR-14, but not the 100/200-period SMA/EMA columns.
	// Those columns must be reported absent, not fail the whole analysis
	// (spec §3.1).
	provider := &fakeProvider{series: oscillatingSeries(50, 100, 0.1, 1, 9)}
	a := newAnalyzer(provider, nil)
	snap, err := a.AnalyzeSecurity(context.Background(), "AAPL", domain.Period1d, profile.Neutral, nil)
	require.NoError(t, err)

	_, rsiDefined := domain.At(snap.Frame.RSI)
	assert.True(t, rsiDefined, "RSI should be computable from 50 bars")

	_, sma200Defined := domain.At(snap.Frame.SMA[200])
	assert.False(t, sma200Defined, "200-period SMA should be absent, not cause a failure")
}

func TestAnalyzeSecurity_ProducesRankedTruncatedSignals(t *testing.T) {
	provider := &fakeProvider{series: oscillatingSeries(400, 100, 0.2, 1.5, 9)}
	a := newAnalyzer(provider, nil)

	snap, err := a.AnalyzeSecurity(context.Background(), "AAPL", domain.Period1d, profile.Neutral, nil)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", snap.Symbol)
	assert.LessOrEqual(t, len(snap.Signals), snap.ConfigApplied.MaxSignalsReturned)
	for i := 1; i < len(snap.Signals); i++ {
		require.NotNil(t, snap.Signals[i-1].Score)
		require.NotNil(t, snap.Signals[i].Score)
		assert.GreaterOrEqual(t, *snap.Signals[i-1].Score, *snap.Signals[i].Score)
	}
}

func TestAnalyzeSecurity_CacheAvoidsSecondFetch(t *testing.T) {
	provider := &fakeProvider{series: oscillatingSeries(400, 100, 0.2, 1.5, 9)}
	cache := NewCache(time.Minute, 10)
	a := newAnalyzer(provider, cache)

	_, err := a.AnalyzeSecurity(context.Background(), "AAPL", domain.Period1d, profile.Neutral, nil)
	require.NoError(t, err)
	_, err = a.AnalyzeSecurity(context.Background(), "AAPL", domain.Period1d, profile.Neutral, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.fetchCount)
}

func TestAnalyzeSecurity_DifferentOverridesAreDifferentCacheKeys(t *testing.T) {
	provider := &fakeProvider{series: oscillatingSeries(400, 100, 0.2, 1.5, 9)}
	cache := NewCache(time.Minute, 10)
	a := newAnalyzer(provider, cache)

	_, err := a.AnalyzeSecurity(context.Background(), "AAPL", domain.Period1d, profile.Neutral, nil)
	require.NoError(t, err)
	_, err = a.AnalyzeSecurity(context.Background(), "AAPL", domain.Period1d, profile.Neutral, map[string]any{"rsi_oversold": 20.0})
	require.NoError(t, err)

	assert.Equal(t, 2, provider.fetchCount)
}

func TestGetTradePlan_ReturnsAValidAssessment(t *testing.T) {
	provider := &fakeProvider{series: oscillatingSeries(400, 100, 0.2, 1.5, 9)}
	a := newAnalyzer(provider, nil)

	result, err := a.GetTradePlan(context.Background(), "AAPL", domain.Period1d, profile.Neutral, nil, "")
	require.NoError(t, err)
	assert.True(t, result.Valid())
}
