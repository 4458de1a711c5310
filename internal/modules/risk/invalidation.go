package risk

import "github.com/aristath/chartwatch/internal/domain"

// swingWindow is the number of bars on each side a local extremum must
// dominate to count as a swing point (spec §4.5 step 5).
const swingWindow = 3

// findInvalidation locates the nearest structural level against bias
// within lookback bars of the end of the series: the most recent swing
// low for a bullish bias, the most recent swing high for a bearish one.
// ok=false means no such structure exists and NO_CLEAR_INVALIDATION
// should be emitted.
func findInvalidation(series domain.BarSeries, bias domain.Bias, lookback int) (level float64, ok bool) {
	n := series.Len()
	if n == 0 {
		return 0, false
	}
	start := n - 1 - lookback
	if start < swingWindow {
		start = swingWindow
	}

	highs := series.Highs()
	lows := series.Lows()

	// Walk backward from the most recent bar so the first match found is
	// the nearest (most recent) swing point.
	for i := n - 1 - swingWindow; i >= start; i-- {
		if bias == domain.BiasBullish {
			if isSwingLow(lows, i) {
				return lows[i], true
			}
		} else if bias == domain.BiasBearish {
			if isSwingHigh(highs, i) {
				return highs[i], true
			}
		}
	}
	return 0, false
}

func isSwingLow(lows []float64, i int) bool {
	if i-swingWindow < 0 || i+swingWindow >= len(lows) {
		return false
	}
	for j := i - swingWindow; j <= i+swingWindow; j++ {
		if j != i && lows[j] < lows[i] {
			return false
		}
	}
	return true
}

func isSwingHigh(highs []float64, i int) bool {
	if i-swingWindow < 0 || i+swingWindow >= len(highs) {
		return false
	}
	for j := i - swingWindow; j <= i+swingWindow; j++ {
		if j != i && highs[j] > highs[i] {
			return false
		}
	}
	return true
}
