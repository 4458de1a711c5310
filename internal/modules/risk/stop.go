package risk

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// placeStop derives the stop from the structural invalidation level,
// checked against the ATR-based min/max distance bounds (pipeline step 6).
// Within bounds it returns the invalidation level itself as the stop and a
// nil reason; outside them it returns a zero stop and a reason saying which
// way (STOP_TOO_TIGHT or STOP_TOO_WIDE).
func placeStop(entry, atr, invalidation float64, bias domain.Bias, cfg profile.ConfigContext) (stop float64, reason *domain.SuppressionReason) {
	distance := entry - invalidation
	if bias == domain.BiasBearish {
		distance = invalidation - entry
	}
	if distance < 0 {
		distance = -distance
	}

	minDist := cfg.StopMinATRMultiple * atr
	maxDist := cfg.StopMaxATRMultiple * atr

	if distance < minDist {
		return 0, &domain.SuppressionReason{
			Code:      domain.SuppressionStopTooTight,
			Message:   "invalidation level is closer than the minimum ATR-based stop distance",
			Threshold: floatPtr(minDist),
			Actual:    floatPtr(distance),
		}
	}
	if distance > maxDist {
		return 0, &domain.SuppressionReason{
			Code:      domain.SuppressionStopTooWide,
			Message:   "invalidation level is farther than the maximum ATR-based stop distance",
			Threshold: floatPtr(maxDist),
			Actual:    floatPtr(distance),
		}
	}
	return invalidation, nil
}

func floatPtr(v float64) *float64 { return &v }
