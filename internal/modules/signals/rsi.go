package signals

import (
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// RSIDetector emits RSI oversold/overbought (and extreme variants) signals,
// plus a 50-line cross as the permitted advanced addition (spec §4.3).
type RSIDetector struct{}

func (RSIDetector) Name() string             { return "rsi" }
func (RSIDetector) Category() domain.Category { return domain.CategoryRSI }

func (RSIDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n == 0 {
		return nil
	}
	i := n - 1
	ts := frame.Series.Bars[i].Timestamp
	rsi, ok := last(frame.RSI, i)
	if !ok {
		return nil
	}

	var out []domain.Signal
	switch {
	case rsi < cfg.RSIExtremeOversold:
		out = append(out, domain.Signal{
			Name: "rsi_extreme_oversold", Description: fmt.Sprintf("RSI %.1f below extreme-oversold threshold %.1f", rsi, cfg.RSIExtremeOversold),
			Strength: domain.StrengthStrongBullish, Category: domain.CategoryRSI, Timestamp: ts, Value: ptr(rsi),
		})
	case rsi < cfg.RSIOversold:
		out = append(out, domain.Signal{
			Name: "rsi_oversold", Description: fmt.Sprintf("RSI %.1f below oversold threshold %.1f", rsi, cfg.RSIOversold),
			Strength: domain.StrengthBullish, Category: domain.CategoryRSI, Timestamp: ts, Value: ptr(rsi),
		})
	case rsi > cfg.RSIExtremeOverbought:
		out = append(out, domain.Signal{
			Name: "rsi_extreme_overbought", Description: fmt.Sprintf("RSI %.1f above extreme-overbought threshold %.1f", rsi, cfg.RSIExtremeOverbought),
			Strength: domain.StrengthStrongBearish, Category: domain.CategoryRSI, Timestamp: ts, Value: ptr(rsi),
		})
	case rsi > cfg.RSIOverbought:
		out = append(out, domain.Signal{
			Name: "rsi_overbought", Description: fmt.Sprintf("RSI %.1f above overbought threshold %.1f", rsi, cfg.RSIOverbought),
			Strength: domain.StrengthBearish, Category: domain.CategoryRSI, Timestamp: ts, Value: ptr(rsi),
		})
	}

	if n >= 2 {
		prevRSI, prevOk := last(frame.RSI, i-1)
		if prevOk {
			if prevRSI <= 50 && rsi > 50 {
				out = append(out, domain.Signal{
					Name: "rsi_cross_above_50", Description: "RSI crossed above the 50 midline",
					Strength: domain.StrengthBullish, Category: domain.CategoryRSI, Timestamp: ts, Value: ptr(rsi),
				})
			}
			if prevRSI >= 50 && rsi < 50 {
				out = append(out, domain.Signal{
					Name: "rsi_cross_below_50", Description: "RSI crossed below the 50 midline",
					Strength: domain.StrengthBearish, Category: domain.CategoryRSI, Timestamp: ts, Value: ptr(rsi),
				})
			}
		}
	}

	return out
}
