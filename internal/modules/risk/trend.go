package risk

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// trendGate reads the current ADX/+DI/-DI and reports whether there is a
// trend at all (pipeline step 3). ok=false means NO_TREND should be
// emitted; direction reflects +DI vs -DI when ok is true.
func trendGate(adx, plusDI, minusDI float64, cfg profile.ConfigContext) (ok bool, direction domain.Bias) {
	if adx < cfg.ADXNoTrend {
		return false, domain.BiasNeutral
	}
	if plusDI >= minusDI {
		return true, domain.BiasBullish
	}
	return true, domain.BiasBearish
}
