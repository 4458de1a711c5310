package signals

import (
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// PriceActionDetector emits large single-bar move and gap signals.
type PriceActionDetector struct{}

func (PriceActionDetector) Name() string             { return "price_action" }
func (PriceActionDetector) Category() domain.Category { return domain.CategoryPriceAction }

func (PriceActionDetector) Detect(frame domain.IndicatorFrame, cfg profile.ConfigContext) []domain.Signal {
	n := frame.Series.Len()
	if n == 0 {
		return nil
	}
	i := n - 1
	bar := frame.Series.Bars[i]
	ts := bar.Timestamp

	var out []domain.Signal
	if bar.Open != 0 {
		movePct := (bar.Close - bar.Open) / bar.Open * 100
		if movePct >= cfg.LargeMovePct {
			out = append(out, domain.Signal{
				Name: "large_bar_gain", Description: fmt.Sprintf("single-bar gain of %.1f%%, above %.1f%% threshold", movePct, cfg.LargeMovePct),
				Strength: domain.StrengthBullish, Category: domain.CategoryPriceAction, Timestamp: ts, Value: ptr(movePct),
			})
		}
		if movePct <= -cfg.LargeMovePct {
			out = append(out, domain.Signal{
				Name: "large_bar_loss", Description: fmt.Sprintf("single-bar loss of %.1f%%, beyond %.1f%% threshold", movePct, cfg.LargeMovePct),
				Strength: domain.StrengthBearish, Category: domain.CategoryPriceAction, Timestamp: ts, Value: ptr(movePct),
			})
		}
	}

	if n >= 2 {
		priorClose := frame.Series.Bars[i-1].Close
		if priorClose != 0 {
			gapPct := (bar.Open - priorClose) / priorClose * 100
			if gapPct >= cfg.GapThresholdPct {
				out = append(out, domain.Signal{
					Name: "gap_up", Description: fmt.Sprintf("opened %.1f%% above prior close, beyond %.1f%% threshold", gapPct, cfg.GapThresholdPct),
					Strength: domain.StrengthBullish, Category: domain.CategoryPriceAction, Timestamp: ts, Value: ptr(gapPct),
				})
			}
			if gapPct <= -cfg.GapThresholdPct {
				out = append(out, domain.Signal{
					Name: "gap_down", Description: fmt.Sprintf("opened %.1f%% below prior close, beyond %.1f%% threshold", gapPct, cfg.GapThresholdPct),
					Strength: domain.StrengthBearish, Category: domain.CategoryPriceAction, Timestamp: ts, Value: ptr(gapPct),
				})
			}
		}
	}
	return out
}
