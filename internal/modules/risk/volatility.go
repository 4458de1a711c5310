// Package risk implements the risk qualifier of spec §4.5: a pipeline of
// small, independently testable collaborators that transform ranked
// signals and an IndicatorFrame into either trade plans or suppression
// reasons, never both, never neither.
package risk

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// classifyVolatility classifies an already-computed ATR% against cfg's
// volatility_low/volatility_high bounds (pipeline step 1).
func classifyVolatility(atrPct float64, cfg profile.ConfigContext) domain.VolatilityRegime {
	switch {
	case atrPct < cfg.VolatilityLow:
		return domain.VolatilityLow
	case atrPct > cfg.VolatilityHigh:
		return domain.VolatilityHigh
	default:
		return domain.VolatilityMedium
	}
}

// ClassifyVolatility exposes classifyVolatility to other packages (the
// portfolio-risk aggregator needs the same regime classification to pick a
// stop-distance bucket for each position) without exporting the whole
// pipeline.
func ClassifyVolatility(atrPct float64, cfg profile.ConfigContext) domain.VolatilityRegime {
	return classifyVolatility(atrPct, cfg)
}

func atrPercent(atr, close float64) float64 {
	if close == 0 {
		return 0
	}
	return atr / close * 100
}

// ATRPercent exposes atrPercent for callers (e.g. portfolio risk) that need
// the same ATR-as-percent-of-price computation outside this pipeline.
func ATRPercent(atr, close float64) float64 { return atrPercent(atr, close) }
