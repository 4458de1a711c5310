package signals

import (
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// StochasticDetector emits %K oversold/overbought and K/D cross-in-extreme
// signals.
type StochasticDetector struct{}

func (StochasticDetector) Name() string             { return "stochastic" }
func (StochasticDetector) Category() domain.Category { return domain.CategoryStochastic }

func (StochasticDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n == 0 {
		return nil
	}
	i := n - 1
	ts := frame.Series.Bars[i].Timestamp

	k, kOk := last(frame.StochK, i)
	d, dOk := last(frame.StochD, i)
	if !kOk {
		return nil
	}

	var out []domain.Signal
	if k < cfg.StochasticOversold {
		out = append(out, domain.Signal{
			Name: "stoch_oversold", Description: fmt.Sprintf("%%K %.1f below oversold threshold %.1f", k, cfg.StochasticOversold),
			Strength: domain.StrengthBullish, Category: domain.CategoryStochastic, Timestamp: ts, Value: ptr(k),
		})
	}
	if k > cfg.StochasticOverbought {
		out = append(out, domain.Signal{
			Name: "stoch_overbought", Description: fmt.Sprintf("%%K %.1f above overbought threshold %.1f", k, cfg.StochasticOverbought),
			Strength: domain.StrengthBearish, Category: domain.CategoryStochastic, Timestamp: ts, Value: ptr(k),
		})
	}

	if n >= 2 && dOk {
		prevK, prevKOk := last(frame.StochK, i-1)
		prevD, prevDOk := last(frame.StochD, i-1)
		if prevKOk && prevDOk {
			if prevK <= prevD && k > d && k < cfg.StochasticOversold+10 {
				out = append(out, domain.Signal{
					Name: "stoch_bullish_cross_extreme", Description: "%K crossed above %D in the oversold zone",
					Strength: domain.StrengthBullish, Category: domain.CategoryStochastic, Timestamp: ts, Value: ptr(k),
				})
			}
			if prevK >= prevD && k < d && k > cfg.StochasticOverbought-10 {
				out = append(out, domain.Signal{
					Name: "stoch_bearish_cross_extreme", Description: "%K crossed below %D in the overbought zone",
					Strength: domain.StrengthBearish, Category: domain.CategoryStochastic, Timestamp: ts, Value: ptr(k),
				})
			}
		}
	}
	return out
}
