package risk

import (
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// Qualify runs the full risk-qualification pipeline of spec §4.5 for one
// symbol, given its bar series, computed indicator frame, and
// already-ranked signals. timeframeHint lets a caller (e.g. an explicit
// "day trade" request) override the default swing selection.
func Qualify(series domain.BarSeries, frame domain.IndicatorFrame, rankedSignals []domain.Signal, cfg profile.ConfigContext, timeframeHint domain.Timeframe) domain.RiskAssessment {
	symbol := series.Symbol
	n := series.Len()
	if n == 0 {
		return suppressedWith(symbol, domain.SuppressionReason{
			Code: domain.SuppressionInsufficientData, Message: "empty bar series",
		})
	}

	entry := series.Last().Close
	atr, atrOk := domain.At(frame.ATR)
	if !atrOk {
		return suppressedWith(symbol, domain.SuppressionReason{
			Code: domain.SuppressionInsufficientData, Message: "ATR not yet defined for this series length",
		})
	}

	// Step 1: volatility regime.
	atrPct := atrPercent(atr, entry)
	volatility := classifyVolatility(atrPct, cfg)
	if volatility == domain.VolatilityHigh {
		return domain.RiskAssessment{
			Symbol: symbol, Volatility: volatility,
			Suppressions: []domain.SuppressionReason{{
				Code: domain.SuppressionVolatilityTooHigh, Message: "ATR% exceeds the high-volatility threshold",
				Threshold: floatPtr(cfg.VolatilityHigh), Actual: floatPtr(atrPct),
			}},
		}
	}
	if volatility == domain.VolatilityLow {
		return domain.RiskAssessment{
			Symbol: symbol, Volatility: volatility,
			Suppressions: []domain.SuppressionReason{{
				Code: domain.SuppressionVolatilityTooLow, Message: "ATR% below the low-volatility threshold; insufficient expected motion",
				Threshold: floatPtr(cfg.VolatilityLow), Actual: floatPtr(atrPct),
			}},
		}
	}

	// Step 2: timeframe selection.
	timeframe := selectTimeframe(timeframeHint, series.Period)

	// Step 3: trend gate.
	adx, _ := domain.At(frame.ADX)
	plusDI, _ := domain.At(frame.PlusDI)
	minusDI, _ := domain.At(frame.MinusDI)
	if trendOK, _ := trendGate(adx, plusDI, minusDI, cfg); !trendOK {
		return domain.RiskAssessment{
			Symbol: symbol, Volatility: volatility, Timeframe: timeframe,
			Suppressions: []domain.SuppressionReason{{
				Code: domain.SuppressionNoTrend, Message: "ADX below the no-trend threshold",
				Threshold: floatPtr(cfg.ADXNoTrend), Actual: floatPtr(adx),
			}},
		}
	}

	// Step 4: directional bias.
	bias, conflicted, conflictRatio := directionalBias(rankedSignals, cfg)
	if conflicted {
		return domain.RiskAssessment{
			Symbol: symbol, Volatility: volatility, Timeframe: timeframe,
			Suppressions: []domain.SuppressionReason{{
				Code: domain.SuppressionConflictingSignals, Message: "opposing-direction signals exceed the conflict threshold",
				Threshold: floatPtr(cfg.SignalConflictPct), Actual: floatPtr(conflictRatio),
			}},
		}
	}
	if bias == domain.BiasNeutral {
		return domain.RiskAssessment{
			Symbol: symbol, Volatility: volatility, Timeframe: timeframe,
			Suppressions: []domain.SuppressionReason{{
				Code: domain.SuppressionConflictingSignals, Message: "no directional signals to aggregate a bias from",
			}},
		}
	}

	// Step 5: invalidation level.
	invalidation, invOk := findInvalidation(series, bias, cfg.SwingLookback)
	if !invOk {
		return domain.RiskAssessment{
			Symbol: symbol, Volatility: volatility, Timeframe: timeframe, Bias: bias,
			Suppressions: []domain.SuppressionReason{{
				Code: domain.SuppressionNoClearInvalidation, Message: "no swing point found within the lookback window",
			}},
		}
	}

	// Step 6: stop placement.
	stop, stopReason := placeStop(entry, atr, invalidation, bias, cfg)
	if stopReason != nil {
		return domain.RiskAssessment{
			Symbol: symbol, Volatility: volatility, Timeframe: timeframe, Bias: bias,
			Suppressions: []domain.SuppressionReason{*stopReason},
		}
	}

	// Step 7: target placement.
	target := placeTarget(entry, stop, bias, cfg)

	// Step 8: R:R check.
	rr := rewardRiskRatio(entry, stop, target)
	if rr < cfg.MinRRRatio {
		return domain.RiskAssessment{
			Symbol: symbol, Volatility: volatility, Timeframe: timeframe, Bias: bias,
			Suppressions: []domain.SuppressionReason{{
				Code: domain.SuppressionRRUnfavorable, Message: "reward:risk ratio below the minimum threshold",
				Threshold: floatPtr(cfg.MinRRRatio), Actual: floatPtr(rr),
			}},
		}
	}

	// Step 9: vehicle selection.
	vehicle, vehicleParams := selectVehicle(entry, target, atr, bias, cfg)

	// Step 10: risk-quality label.
	var topStrength domain.Strength = domain.StrengthNeutral
	if len(rankedSignals) > 0 {
		topStrength = rankedSignals[0].Strength
	}
	quality, qualityOK := labelQuality(rr, volatility, topStrength, cfg)
	if !qualityOK {
		return domain.RiskAssessment{
			Symbol: symbol, Volatility: volatility, Timeframe: timeframe, Bias: bias,
			Suppressions: []domain.SuppressionReason{{
				Code: domain.SuppressionRRUnfavorable, Message: "reward:risk ratio below the minimum threshold after quality labeling",
				Threshold: floatPtr(cfg.MinRRRatio), Actual: floatPtr(rr),
			}},
		}
	}

	expectedMovePct := abs((target - entry) / entry * 100)
	maxLossPct := abs((entry - stop) / entry * 100)

	var primary domain.Signal
	var supporting []domain.Signal
	if len(rankedSignals) > 0 {
		primary = rankedSignals[0]
		supporting = rankedSignals[1:]
	}

	plan := domain.TradePlan{
		Symbol: symbol, Timeframe: timeframe, Bias: bias, RiskQuality: quality,
		Entry: entry, Stop: stop, Target: target, Invalidation: invalidation,
		RRRatio: rr, ExpectedMovePct: expectedMovePct, MaxLossPct: maxLossPct,
		Vehicle: vehicle, VehicleParams: vehicleParams,
		PrimarySignal: primary, SupportingSignals: supporting,
	}
	if !plan.Valid() {
		panic("risk: constructed TradePlan violates the ordering invariant for its bias")
	}

	plans := []domain.TradePlan{plan}
	if cfg.MaxTradePlans > 0 && len(plans) > cfg.MaxTradePlans {
		plans = plans[:cfg.MaxTradePlans]
	}

	return domain.RiskAssessment{
		Symbol: symbol, Volatility: volatility, Timeframe: timeframe, Bias: bias,
		Plans: plans,
	}
}

func suppressedWith(symbol string, reason domain.SuppressionReason) domain.RiskAssessment {
	return domain.RiskAssessment{Symbol: symbol, Suppressions: []domain.SuppressionReason{reason}}
}
