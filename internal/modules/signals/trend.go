package signals

import (
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// TrendDetector emits the composite directional-trend signal (spec §4.3's
// "Trend (ADX)" bullet): ADX above adx_trending plus price position
// relative to the 50 SMA determines strong-uptrend/strong-downtrend.
type TrendDetector struct{}

func (TrendDetector) Name() string             { return "trend" }
func (TrendDetector) Category() domain.Category { return domain.CategoryTrend }

func (TrendDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n == 0 {
		return nil
	}
	i := n - 1
	ts := frame.Series.Bars[i].Timestamp

	adx, adxOk := last(frame.ADX, i)
	sma50, smaOk := last(frame.SMA[50], i)
	if !adxOk || !smaOk {
		return nil
	}
	close := frame.Series.Closes()[i]

	if adx > cfg.ADXTrending && close > sma50 {
		return []domain.Signal{{
			Name: "strong_uptrend", Description: fmt.Sprintf("ADX %.1f above %.1f with price above 50 SMA", adx, cfg.ADXTrending),
			Strength: domain.StrengthBullish, Category: domain.CategoryTrend, Timestamp: ts, Value: ptr(adx),
		}}
	}
	if adx > cfg.ADXTrending && close < sma50 {
		return []domain.Signal{{
			Name: "strong_downtrend", Description: fmt.Sprintf("ADX %.1f above %.1f with price below 50 SMA", adx, cfg.ADXTrending),
			Strength: domain.StrengthBearish, Category: domain.CategoryTrend, Timestamp: ts, Value: ptr(adx),
		}}
	}
	return nil
}

// ADXDetector emits the raw no-trend signal and directional-index-flip
// signals derived purely from ADX/+DI/-DI, independent of price-vs-MA
// context (kept separate from TrendDetector so each category reads only
// the columns it needs, per spec §4.3).
type ADXDetector struct{}

func (ADXDetector) Name() string             { return "adx" }
func (ADXDetector) Category() domain.Category { return domain.CategoryADX }

func (ADXDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n == 0 {
		return nil
	}
	i := n - 1
	ts := frame.Series.Bars[i].Timestamp

	adx, adxOk := last(frame.ADX, i)
	if !adxOk {
		return nil
	}

	var out []domain.Signal
	if adx < cfg.ADXNoTrend {
		out = append(out, domain.Signal{
			Name: "no_trend", Description: fmt.Sprintf("ADX %.1f below no-trend threshold %.1f", adx, cfg.ADXNoTrend),
			Strength: domain.StrengthNeutral, Category: domain.CategoryADX, Timestamp: ts, Value: ptr(adx),
		})
	}

	plusDI, plusOk := last(frame.PlusDI, i)
	minusDI, minusOk := last(frame.MinusDI, i)
	if plusOk && minusOk && n >= 2 {
		prevPlus, prevPlusOk := last(frame.PlusDI, i-1)
		prevMinus, prevMinusOk := last(frame.MinusDI, i-1)
		if prevPlusOk && prevMinusOk {
			if prevPlus <= prevMinus && plusDI > minusDI {
				out = append(out, domain.Signal{
					Name: "di_bullish_cross", Description: "+DI crossed above -DI",
					Strength: domain.StrengthBullish, Category: domain.CategoryADX, Timestamp: ts, Value: ptr(plusDI - minusDI),
				})
			}
			if prevPlus >= prevMinus && plusDI < minusDI {
				out = append(out, domain.Signal{
					Name: "di_bearish_cross", Description: "+DI crossed below -DI",
					Strength: domain.StrengthBearish, Category: domain.CategoryADX, Timestamp: ts, Value: ptr(plusDI - minusDI),
				})
			}
		}
	}
	return out
}
