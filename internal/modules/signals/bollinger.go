package signals

import (
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// squeezePercentile is the threshold below which the current BB width's
// rank within its own history counts as a squeeze (spec §4.3: "lowest
// percentile of its own history").
const squeezePercentile = 0.10

// BollingerDetector emits band-touch and squeeze signals.
type BollingerDetector struct{}

func (BollingerDetector) Name() string             { return "bollinger" }
func (BollingerDetector) Category() domain.Category { return domain.CategoryBollinger }

func (BollingerDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n == 0 {
		return nil
	}
	i := n - 1
	ts := frame.Series.Bars[i].Timestamp
	closes := frame.Series.Closes()

	upper, upperOk := last(frame.BBUpper, i)
	lower, lowerOk := last(frame.BBLower, i)
	if !upperOk || !lowerOk {
		return nil
	}

	var out []domain.Signal
	close := closes[i]
	if close <= lower {
		out = append(out, domain.Signal{
			Name: "bb_at_lower_band", Description: fmt.Sprintf("price %.2f at/below lower Bollinger band %.2f", close, lower),
			Strength: domain.StrengthBullish, Category: domain.CategoryBollinger, Timestamp: ts, Value: ptr(close - lower),
		})
	}
	if close >= upper {
		out = append(out, domain.Signal{
			Name: "bb_at_upper_band", Description: fmt.Sprintf("price %.2f at/above upper Bollinger band %.2f", close, upper),
			Strength: domain.StrengthBearish, Category: domain.CategoryBollinger, Timestamp: ts, Value: ptr(close - upper),
		})
	}

	if width, ok := last(frame.BBWidth, i); ok {
		rank := percentileRank(frame.BBWidth, i, width)
		if rank >= 0 && rank <= squeezePercentile {
			out = append(out, domain.Signal{
				Name: "bb_squeeze", Description: fmt.Sprintf("Bollinger width at %.0fth percentile of its own history", rank*100),
				Strength: domain.StrengthNotable, Category: domain.CategoryBollinger, Timestamp: ts, Value: ptr(width),
			})
		}
	}
	return out
}

// percentileRank computes the fraction of defined values in col[0:i+1] that
// are <= col[i]. Returns -1 if col[i] is undefined.
func percentileRank(col []float64, i int, value float64) float64 {
	if !domain.Defined(value) {
		return -1
	}
	total, lessOrEqual := 0, 0
	for j := 0; j <= i; j++ {
		if !domain.Defined(col[j]) {
			continue
		}
		total++
		if col[j] <= value {
			lessOrEqual++
		}
	}
	if total == 0 {
		return -1
	}
	return float64(lessOrEqual) / float64(total)
}
