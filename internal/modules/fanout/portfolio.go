package fanout

import (
	"context"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/portfolio"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// PortfolioRiskResult is the portfolio_risk RPC operation's output: the
// sector-bucketed report plus any positions that failed analysis.
type PortfolioRiskResult struct {
	Report portfolio.Report
	Errors []SymbolError
}

// AssessPortfolio runs the per-symbol core for every position (to get its
// current price and ATR) and feeds the results into portfolio.AssessPosition
// / portfolio.BuildReport (spec §4.7's portfolio-risk fan-out).
func AssessPortfolio(ctx context.Context, analyzer *analysis.Analyzer, positions []portfolio.Position, period domain.Period, profileName profile.Name, concurrency int) PortfolioRiskResult {
	byPosition := make(map[string]portfolio.Position, len(positions))
	symbols := make([]string, len(positions))
	for i, pos := range positions {
		symbols[i] = pos.Symbol
		byPosition[pos.Symbol] = pos
	}

	risks, errs := forEachSymbol(ctx, symbols, concurrency, func(ctx context.Context, symbol string) (portfolio.PositionRisk, error) {
		snap, err := analyzer.AnalyzeSecurity(ctx, symbol, period, profileName, nil)
		if err != nil {
			return portfolio.PositionRisk{}, err
		}
		atr, _ := domain.At(snap.Frame.ATR)
		return portfolio.AssessPosition(byPosition[symbol], snap.Price, atr, snap.ConfigApplied), nil
	})

	return PortfolioRiskResult{Report: portfolio.BuildReport(risks), Errors: errs}
}
