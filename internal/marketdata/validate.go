package marketdata

import (
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
)

// EnsureMinLength checks series against the minimum bar count the longest
// lookback in use requires, returning an INSUFFICIENT_DATA error if short
// (spec §4.1).
func EnsureMinLength(series domain.BarSeries, minLen int) error {
	if series.Len() < minLen {
		return domain.NewError(domain.CodeInsufficientData,
			fmt.Sprintf("%s: got %d bars, need at least %d", series.Symbol, series.Len(), minLen)).
			WithThreshold(float64(minLen), float64(series.Len()))
	}
	return nil
}
