package signals

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// MACDDetector emits signal-line and zero-line cross signals.
type MACDDetector struct{}

func (MACDDetector) Name() string             { return "macd" }
func (MACDDetector) Category() domain.Category { return domain.CategoryMACD }

func (MACDDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n < 2 {
		return nil
	}
	i, prev := n-1, n-2
	ts := frame.Series.Bars[i].Timestamp

	line, lineOk := last(frame.MACDLine, i)
	prevLine, prevLineOk := last(frame.MACDLine, prev)
	sig, sigOk := last(frame.MACDSignal, i)
	prevSig, prevSigOk := last(frame.MACDSignal, prev)
	if !lineOk || !prevLineOk || !sigOk || !prevSigOk {
		return nil
	}

	var out []domain.Signal
	if prevLine <= prevSig && line > sig {
		out = append(out, domain.Signal{
			Name: "macd_bullish_cross", Description: "MACD line crossed above the signal line",
			Strength: domain.StrengthBullish, Category: domain.CategoryMACD, Timestamp: ts, Value: ptr(line - sig),
		})
	}
	if prevLine >= prevSig && line < sig {
		out = append(out, domain.Signal{
			Name: "macd_bearish_cross", Description: "MACD line crossed below the signal line",
			Strength: domain.StrengthBearish, Category: domain.CategoryMACD, Timestamp: ts, Value: ptr(line - sig),
		})
	}
	if prevLine <= 0 && line > 0 {
		out = append(out, domain.Signal{
			Name: "macd_zero_cross_up", Description: "MACD line crossed above zero",
			Strength: domain.StrengthBullish, Category: domain.CategoryMACD, Timestamp: ts, Value: ptr(line),
		})
	}
	if prevLine >= 0 && line < 0 {
		out = append(out, domain.Signal{
			Name: "macd_zero_cross_down", Description: "MACD line crossed below zero",
			Strength: domain.StrengthBearish, Category: domain.CategoryMACD, Timestamp: ts, Value: ptr(line),
		})
	}
	return out
}
