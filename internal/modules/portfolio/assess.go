package portfolio

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/aristath/chartwatch/internal/modules/risk"
	"github.com/aristath/chartwatch/internal/modules/universe"
)

// PositionRisk is the per-position outcome of the portfolio-risk pipeline:
// the intelligent stop derived from the position's recent volatility, and
// the dollar risk it implies.
type PositionRisk struct {
	Symbol        string
	Sector        universe.Sector
	Shares        float64
	CurrentPrice  float64
	Value         float64
	Stop          float64
	StopPct       float64
	MaxLossDollar float64
	Volatility    domain.VolatilityRegime
	RiskLevel     RiskLevel
}

// AssessPosition derives a stop, its implied dollar risk, and a risk-level
// bucket for one long position from the symbol's current ATR as a percent
// of price: that ATR% picks the volatility regime and sets the stop
// distance. Realized volatility is not an input; the stop scales with
// ATR% only.
func AssessPosition(pos Position, currentPrice, atr float64, cfg profile.ConfigContext) PositionRisk {
	value := pos.Shares * currentPrice
	atrPct := risk.ATRPercent(atr, currentPrice)
	regime := risk.ClassifyVolatility(atrPct, cfg)
	stopPct := stopDistancePct(atrPct, regime, cfg.VolatilityLow, cfg.VolatilityHigh)
	stop := currentPrice * (1 - stopPct/100)
	maxLoss := pos.Shares * (currentPrice - stop)

	sector, ok := universe.SectorOf(pos.Symbol)
	if !ok {
		sector = UnknownSector
	}

	return PositionRisk{
		Symbol: pos.Symbol, Sector: sector, Shares: pos.Shares,
		CurrentPrice: currentPrice, Value: value,
		Stop: stop, StopPct: stopPct, MaxLossDollar: maxLoss,
		Volatility: regime, RiskLevel: riskLevelFor(regime),
	}
}
