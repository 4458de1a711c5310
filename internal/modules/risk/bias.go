package risk

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// directionalBias aggregates the strength of the top-K ranked signals
// (pipeline step 4). conflicted is true when the ratio of
// opposing-direction signals to total exceeds cfg.SignalConflictPct, in
// which case the bias returned is meaningless and the caller must
// suppress with CONFLICTING_SIGNALS.
func directionalBias(rankedSignals []domain.Signal, cfg profile.ConfigContext) (bias domain.Bias, conflicted bool, conflictRatio float64) {
	k := cfg.TopKForBias
	if k <= 0 || k > len(rankedSignals) {
		k = len(rankedSignals)
	}
	top := rankedSignals[:k]

	bullish, bearish := 0, 0
	for _, s := range top {
		switch {
		case s.Strength.IsBullish():
			bullish++
		case s.Strength.IsBearish():
			bearish++
		}
	}
	directional := bullish + bearish
	if directional == 0 {
		return domain.BiasNeutral, false, 0
	}

	minority := bullish
	if bearish < minority {
		minority = bearish
	}
	conflictRatio = float64(minority) / float64(directional)
	if conflictRatio > cfg.SignalConflictPct {
		return domain.BiasNeutral, true, conflictRatio
	}

	if bullish >= bearish {
		return domain.BiasBullish, false, conflictRatio
	}
	return domain.BiasBearish, false, conflictRatio
}
