package risk

import "github.com/aristath/chartwatch/internal/domain"

// selectTimeframe chooses swing by default; day/scalp only on an explicit
// caller hint or when the series period is intraday (pipeline step 2).
func selectTimeframe(hint domain.Timeframe, period domain.Period) domain.Timeframe {
	if hint == domain.TimeframeDay || hint == domain.TimeframeScalp {
		return hint
	}
	if period.IsIntraday() {
		return domain.TimeframeDay
	}
	return domain.TimeframeSwing
}
