package fanout

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/portfolio"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/aristath/chartwatch/internal/modules/ranking"
	"github.com/aristath/chartwatch/internal/modules/signals"
	"github.com/aristath/chartwatch/internal/modules/universe"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyedProvider returns a fixed series for every symbol except those
// listed in failSymbols, which return an INVALID_SYMBOL error — the
// fake stand-in for an upstream vendor rejecting a delisted ticker.
type keyedProvider struct {
	series      domain.BarSeries
	failSymbols map[string]bool
}

func (p *keyedProvider) FetchBars(ctx context.Context, symbol string, period domain.Period) (domain.BarSeries, error) {
	if p.failSymbols[symbol] {
		return domain.BarSeries{}, domain.NewError(domain.CodeInvalidSymbol, "no such instrument: "+symbol)
	}
	return p.series, nil
}

func oscillatingTrend(n int, start, drift, amplitude, wavelength float64) domain.BarSeries {
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

func newTestAnalyzer(provider *keyedProvider) *analysis.Analyzer {
	return analysis.New(provider, signals.NewPopulatedRegistry(zerolog.Nop()), ranking.RuleBasedRanker{}, nil, zerolog.Nop())
}

func TestScanUniverse_PartialFailureStillSucceeds(t *testing.T) {
	symbols, err := universe.Resolve(universe.SP500)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(symbols), 3)

	failing := map[string]bool{symbols[0]: true, symbols[1]: true, symbols[2]: true}
	provider := &keyedProvider{
		series:      oscillatingTrend(400, 100, 0.2, 1.5, 9),
		failSymbols: failing,
	}
	analyzer := newTestAnalyzer(provider)

	result, err := ScanUniverse(context.Background(), analyzer, universe.SP500, 0, domain.Period1d, profile.Neutral, nil, 4)
	require.NoError(t, err)

	assert.Equal(t, len(symbols), result.TotalScanned)
	assert.Len(t, result.Errors, 3)
	assert.LessOrEqual(t, len(result.QualifiedTrades), len(symbols)-3)
	for _, e := range result.Errors {
		assert.True(t, failing[e.Symbol])
	}
}

func TestScanUniverse_UnknownUniverseErrors(t *testing.T) {
	analyzer := newTestAnalyzer(&keyedProvider{series: oscillatingTrend(400, 100, 0.2, 1.5, 9)})
	_, err := ScanUniverse(context.Background(), analyzer, universe.Name("bogus"), 0, domain.Period1d, profile.Neutral, nil, 4)
	require.Error(t, err)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.CodeUnknownUniverse, derr.Code)
}

func TestCompareSecurities_WinnerIsHighestChangePct(t *testing.T) {
	provider := &keyedProvider{series: oscillatingTrend(400, 100, 0.3, 1.5, 9)}
	analyzer := newTestAnalyzer(provider)

	result := CompareSecurities(context.Background(), analyzer, []string{"AAPL", "MSFT"}, MetricChangePct, domain.Period1d, profile.Neutral, nil, 2)
	require.Len(t, result.Rows, 2)
	require.NotNil(t, result.Winner)
	assert.Equal(t, result.Rows[0].Symbol, result.Winner.Symbol)
	assert.GreaterOrEqual(t, result.Rows[0].Value, result.Rows[1].Value)
}

func TestCompareSecurities_AllFailedLeavesWinnerNil(t *testing.T) {
	provider := &keyedProvider{failSymbols: map[string]bool{"AAPL": true, "MSFT": true}}
	analyzer := newTestAnalyzer(provider)

	result := CompareSecurities(context.Background(), analyzer, []string{"AAPL", "MSFT"}, MetricChangePct, domain.Period1d, profile.Neutral, nil, 2)
	assert.Empty(t, result.Rows)
	assert.Nil(t, result.Winner)
	assert.Len(t, result.Errors, 2)
}

func TestScreenSecurities_FiltersByMinBullishSignals(t *testing.T) {
	provider := &keyedProvider{series: oscillatingTrend(400, 100, 0.3, 1.5, 9)}
	analyzer := newTestAnalyzer(provider)

	loose := ScreenSecurities(context.Background(), analyzer, []string{"AAPL"}, Criteria{}, domain.Period1d, profile.Neutral, nil, 2)
	assert.Equal(t, 1, loose.ScanCount)
	assert.Len(t, loose.Matches, 1)

	strict := ScreenSecurities(context.Background(), analyzer, []string{"AAPL"}, Criteria{MinBullishSignals: 1000}, domain.Period1d, profile.Neutral, nil, 2)
	assert.Empty(t, strict.Matches)
}

func TestAssessPortfolio_AggregatesAcrossSectors(t *testing.T) {
	provider := &keyedProvider{series: oscillatingTrend(400, 100, 0.05, 1.5, 9)}
	analyzer := newTestAnalyzer(provider)

	positions := []portfolio.Position{
		{Symbol: "AAPL", Shares: 10, EntryPrice: 100},
		{Symbol: "XOM", Shares: 20, EntryPrice: 100},
		{Symbol: "JNJ", Shares: 15, EntryPrice: 100},
	}

	result := AssessPortfolio(context.Background(), analyzer, positions, domain.Period1d, profile.Neutral, 3)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Report.Positions, 3)
	assert.Greater(t, result.Report.TotalValue, 0.0)

	var sectorsWithValue int
	for _, sr := range result.Report.Sectors {
		if sr.TotalValue > 0 {
			sectorsWithValue++
		}
	}
	assert.Equal(t, 3, sectorsWithValue)
}

func TestBuildMorningBrief_OneEntryPerWatchlistSymbol(t *testing.T) {
	provider := &keyedProvider{series: oscillatingTrend(400, 100, 0.3, 1.5, 9)}
	analyzer := newTestAnalyzer(provider)

	brief := BuildMorningBrief(context.Background(), analyzer, []string{"AAPL", "MSFT"}, domain.Period1d, profile.Neutral, 2)
	assert.Len(t, brief.Entries, 2)
	assert.Empty(t, brief.Errors)
	assert.False(t, brief.GeneratedAt.IsZero())
}
