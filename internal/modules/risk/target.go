package risk

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// placeTarget computes the default target: preferred_rr_ratio times the
// stop distance, on the bias side (pipeline step 7).
func placeTarget(entry, stop float64, bias domain.Bias, cfg profile.ConfigContext) float64 {
	stopDistance := entry - stop
	if stopDistance < 0 {
		stopDistance = -stopDistance
	}
	reward := cfg.PreferredRRRatio * stopDistance
	if bias == domain.BiasBullish {
		return entry + reward
	}
	return entry - reward
}

// rewardRiskRatio implements pipeline step 8.
func rewardRiskRatio(entry, stop, target float64) float64 {
	risk := entry - stop
	if risk < 0 {
		risk = -risk
	}
	if risk == 0 {
		return 0
	}
	reward := target - entry
	if reward < 0 {
		reward = -reward
	}
	return reward / risk
}
