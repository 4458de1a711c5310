package signals

import (
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// MACrossDetector emits Golden Cross / Death Cross / 20-SMA price-cross
// signals, checked over the most recent bar transition.
type MACrossDetector struct{}

func (MACrossDetector) Name() string             { return "ma_cross" }
func (MACrossDetector) Category() domain.Category { return domain.CategoryMACross }

func (MACrossDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n < 2 {
		return nil
	}
	i, prev := n-1, n-2
	ts := frame.Series.Bars[i].Timestamp
	var out []domain.Signal

	if sma50, ok50 := frame.SMA[50]; ok50 {
		if sma200, ok200 := frame.SMA[200]; ok200 {
			p50, p50ok := last(sma50, prev)
			c50, c50ok := last(sma50, i)
			p200, p200ok := last(sma200, prev)
			c200, c200ok := last(sma200, i)
			if p50ok && c50ok && p200ok && c200ok {
				if p50 <= p200 && c50 > c200 {
					out = append(out, domain.Signal{
						Name: "golden_cross", Description: "50-day SMA crossed above the 200-day SMA",
						Strength: domain.StrengthStrongBullish, Category: domain.CategoryMACross,
						Timestamp: ts, Value: ptr(c50 - c200),
					})
				}
				if p50 >= p200 && c50 < c200 {
					out = append(out, domain.Signal{
						Name: "death_cross", Description: "50-day SMA crossed below the 200-day SMA",
						Strength: domain.StrengthStrongBearish, Category: domain.CategoryMACross,
						Timestamp: ts, Value: ptr(c50 - c200),
					})
				}
			}
		}
	}

	if sma20, ok := frame.SMA[20]; ok {
		closes := frame.Series.Closes()
		p20, p20ok := last(sma20, prev)
		c20, c20ok := last(sma20, i)
		if p20ok && c20ok {
			if closes[prev] <= p20 && closes[i] > c20 {
				out = append(out, domain.Signal{
					Name: "price_cross_above_sma20", Description: "price crossed above the 20-day SMA",
					Strength: domain.StrengthBullish, Category: domain.CategoryMACross,
					Timestamp: ts, Value: ptr(closes[i] - c20),
				})
			}
			if closes[prev] >= p20 && closes[i] < c20 {
				out = append(out, domain.Signal{
					Name: "price_cross_below_sma20", Description: "price crossed below the 20-day SMA",
					Strength: domain.StrengthBearish, Category: domain.CategoryMACross,
					Timestamp: ts, Value: ptr(closes[i] - c20),
				})
			}
		}
	}

	return out
}

// MATrendDetector emits multi-MA bullish/bearish alignment signals: the
// 10/20/50 SMAs stacked in strictly ascending or descending order.
type MATrendDetector struct{}

func (MATrendDetector) Name() string             { return "ma_trend" }
func (MATrendDetector) Category() domain.Category { return domain.CategoryMATrend }

func (MATrendDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n == 0 {
		return nil
	}
	i := n - 1
	ts := frame.Series.Bars[i].Timestamp

	sma10, ok10 := last(frame.SMA[10], i)
	sma20, ok20 := last(frame.SMA[20], i)
	sma50, ok50 := last(frame.SMA[50], i)
	if !ok10 || !ok20 || !ok50 {
		return nil
	}

	if sma10 > sma20 && sma20 > sma50 {
		return []domain.Signal{{
			Name: "bullish_ma_alignment", Description: fmt.Sprintf("10 SMA (%.2f) > 20 SMA (%.2f) > 50 SMA (%.2f)", sma10, sma20, sma50),
			Strength: domain.StrengthBullish, Category: domain.CategoryMATrend, Timestamp: ts,
		}}
	}
	if sma10 < sma20 && sma20 < sma50 {
		return []domain.Signal{{
			Name: "bearish_ma_alignment", Description: fmt.Sprintf("10 SMA (%.2f) < 20 SMA (%.2f) < 50 SMA (%.2f)", sma10, sma20, sma50),
			Strength: domain.StrengthBearish, Category: domain.CategoryMATrend, Timestamp: ts,
		}}
	}
	return nil
}
