package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/aristath/chartwatch/internal/modules/ranking"
	"github.com/aristath/chartwatch/internal/modules/signals"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fixedProvider struct {
	series domain.BarSeries
}

func (p *fixedProvider) FetchBars(ctx context.Context, symbol string, period domain.Period) (domain.BarSeries, error) {
	return p.series, nil
}

func flatTrendSeries(n int) domain.BarSeries {
	bars := make([]domain.Bar, n)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		price += 0.1
		bars[i] = domain.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price, High: price + 0.5, Low: price - 0.5, Close: price,
			Volume: 1_000_000,
		}
	}
	return domain.BarSeries{Symbol: "TEST", Bars: bars}
}

func TestMorningBriefJob_RunsWithoutError(t *testing.T) {
	provider := &fixedProvider{series: flatTrendSeries(400)}
	analyzer := analysis.New(provider, signals.NewPopulatedRegistry(zerolog.Nop()), ranking.RuleBasedRanker{}, nil, zerolog.Nop())

	job := NewMorningBriefJob(zerolog.Nop(), analyzer, []string{"AAPL", "MSFT"}, domain.Period1d, profile.Neutral, 2, 5*time.Second)

	require.Equal(t, "morning_brief", job.Name())
	require.NoError(t, job.Run())
}
