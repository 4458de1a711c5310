package portfolio

import "github.com/aristath/chartwatch/internal/domain"

// riskBucketRange returns the percent-of-price stop-distance range for a
// volatility regime (spec §4.7: "low 2-3%, moderate 3-5%, high 5-8%").
func riskBucketRange(regime domain.VolatilityRegime) (lowPct, highPct float64) {
	switch regime {
	case domain.VolatilityLow:
		return 2.0, 3.0
	case domain.VolatilityHigh:
		return 5.0, 8.0
	default:
		return 3.0, 5.0
	}
}

// riskLevelFor maps a volatility regime onto its matching RiskLevel label.
func riskLevelFor(regime domain.VolatilityRegime) RiskLevel {
	switch regime {
	case domain.VolatilityLow:
		return RiskLevelLow
	case domain.VolatilityHigh:
		return RiskLevelHigh
	default:
		return RiskLevelModerate
	}
}

// stopDistancePct scales within the regime's bucket range by how far ATR%
// sits inside that regime's span, so two MEDIUM-regime positions with
// different realized ATR% get different stop distances instead of both
// defaulting to the bucket midpoint.
func stopDistancePct(atrPct float64, regime domain.VolatilityRegime, volatilityLow, volatilityHigh float64) float64 {
	lowPct, highPct := riskBucketRange(regime)

	var fraction float64
	switch regime {
	case domain.VolatilityLow:
		if volatilityLow > 0 {
			fraction = atrPct / volatilityLow
		}
	case domain.VolatilityHigh:
		if volatilityHigh > 0 {
			fraction = (atrPct - volatilityHigh) / volatilityHigh
		}
	default:
		span := volatilityHigh - volatilityLow
		if span > 0 {
			fraction = (atrPct - volatilityLow) / span
		}
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return lowPct + (highPct-lowPct)*fraction
}
