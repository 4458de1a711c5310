package risk

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// labelQuality implements pipeline step 10. ok=false means the plan fails
// even the minimum R:R bar and must be suppressed with RR_UNFAVORABLE
// (that suppression is raised by the caller, which has the threshold/
// actual values already).
func labelQuality(rr float64, volatility domain.VolatilityRegime, topStrength domain.Strength, cfg profile.ConfigContext) (domain.RiskQuality, bool) {
	if rr >= cfg.PreferredRRRatio && volatility == domain.VolatilityMedium &&
		(topStrength == domain.StrengthStrongBullish || topStrength == domain.StrengthStrongBearish) {
		return domain.RiskQualityHigh, true
	}
	if rr >= cfg.MinRRRatio {
		return domain.RiskQualityMedium, true
	}
	return "", false
}
