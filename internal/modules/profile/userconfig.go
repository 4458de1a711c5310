// Package profile implements the UserConfig / profile-preset / override
// system of spec §3.5 and §4.6: resolving a (profile name, override map)
// pair into an immutable, validated UserConfig, and flattening that into
// the ConfigContext scalar view consumed by the indicator, signal, and risk
// components.
package profile

import "github.com/aristath/chartwatch/internal/domain"

// Name identifies a profile preset.
type Name string

const (
	Risky   Name = "risky"
	Neutral Name = "neutral"
	Averse  Name = "averse"
)

// IndicatorConfig holds thresholds consumed by the indicator engine and
// signal detectors.
type IndicatorConfig struct {
	RSIPeriod            int
	RSIOversold          float64
	RSIOverbought        float64
	RSIExtremeOversold   float64
	RSIExtremeOverbought float64

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	BollingerPeriod int
	BollingerStdDev float64

	StochasticPeriod     int
	StochasticOversold   float64
	StochasticOverbought float64

	ADXPeriod   int
	ADXTrending float64
	ADXNoTrend  float64

	ATRPeriod int

	LargeMovePct    float64
	GapThresholdPct float64

	VolumeSpikeMultiple   float64
	VolumeExtremeMultiple float64
	VolumeDryUpMultiple   float64
}

// RiskConfig holds thresholds consumed by the risk qualifier.
type RiskConfig struct {
	StopATRSwing        float64
	StopATRDay          float64
	StopATRScalp        float64
	StopMinATRMultiple  float64
	StopMaxATRMultiple  float64

	MinRRRatio       float64
	PreferredRRRatio float64

	VolatilityLow  float64
	VolatilityHigh float64

	PositionRiskPct   float64
	SignalConflictPct float64
	SwingLookback     int

	OptionMinExpectedMove float64
	CallDeltaMin          float64
	CallDeltaMax          float64
	PutDeltaMin           float64
	PutDeltaMax           float64
	OptionSwingMinDTE     int
	OptionSwingMaxDTE     int
	OptionSpreadWidthATR  float64
}

// MomentumConfig holds weighting parameters for directional-bias
// aggregation.
type MomentumConfig struct {
	TopKForBias        int
	MomentumWeightRSI    float64
	MomentumWeightMACD   float64
	MomentumWeightVolume float64
}

// SignalConfig holds output-shaping parameters for the signal/ranking
// stages.
type SignalConfig struct {
	MaxSignalsReturned int
	MaxTradePlans      int
	CategoryBonuses    map[domain.Category]float64
}

// UserConfig is the fully-resolved, immutable configuration for one
// request. It is constructed once by Resolve and never mutated; every
// "change" produces a new UserConfig value: an Override applies to a
// UserConfig passed by value and returns the modified copy.
type UserConfig struct {
	Profile    Name
	Indicators IndicatorConfig
	Risk       RiskConfig
	Momentum   MomentumConfig
	Signals    SignalConfig
}

func defaultCategoryBonuses() map[domain.Category]float64 {
	return map[domain.Category]float64{
		domain.CategoryMACross:     8,
		domain.CategoryMATrend:     5,
		domain.CategoryRSI:         4,
		domain.CategoryMACD:        6,
		domain.CategoryBollinger:   4,
		domain.CategoryStochastic:  3,
		domain.CategoryVolume:      5,
		domain.CategoryTrend:       6,
		domain.CategoryADX:         6,
		domain.CategoryPriceAction: 3,
	}
}

// basePreset returns the hardcoded values from spec §3.5's profile table,
// filling in the fields the table leaves unstated with sensible, derived
// defaults shared across all three presets except where noted.
func basePreset(name Name, rsiOversold, rsiOverbought, minRR, stopATRSwing, volHigh, adxTrending, positionRisk float64, maxSignals, maxPlans int) UserConfig {
	return UserConfig{
		Profile: name,
		Indicators: IndicatorConfig{
			RSIPeriod:            14,
			RSIOversold:          rsiOversold,
			RSIOverbought:        rsiOverbought,
			RSIExtremeOversold:   rsiOversold - 10,
			RSIExtremeOverbought: rsiOverbought + 10,
			MACDFast:             12,
			MACDSlow:             26,
			MACDSignal:           9,
			BollingerPeriod:      20,
			BollingerStdDev:      2.0,
			StochasticPeriod:     14,
			StochasticOversold:   20,
			StochasticOverbought: 80,
			ADXPeriod:            14,
			ADXTrending:          adxTrending,
			ADXNoTrend:           adxTrending - 10,
			ATRPeriod:            14,
			LargeMovePct:         5.0,
			GapThresholdPct:      2.0,
			VolumeSpikeMultiple:   2.0,
			VolumeExtremeMultiple: 3.0,
			VolumeDryUpMultiple:   0.5,
		},
		Risk: RiskConfig{
			StopATRSwing:          stopATRSwing,
			StopATRDay:            stopATRSwing * 0.6,
			StopATRScalp:          stopATRSwing * 0.35,
			StopMinATRMultiple:    1.0,
			StopMaxATRMultiple:    3.5,
			MinRRRatio:            minRR,
			PreferredRRRatio:      minRR + 0.5,
			VolatilityLow:         volHigh * 0.4,
			VolatilityHigh:        volHigh,
			PositionRiskPct:       positionRisk,
			SignalConflictPct:     0.4,
			SwingLookback:         20,
			OptionMinExpectedMove: 5.0,
			CallDeltaMin:          0.30,
			CallDeltaMax:          0.45,
			PutDeltaMin:           -0.45,
			PutDeltaMax:           -0.30,
			OptionSwingMinDTE:     30,
			OptionSwingMaxDTE:     45,
			OptionSpreadWidthATR:  1.0,
		},
		Momentum: MomentumConfig{
			TopKForBias:          10,
			MomentumWeightRSI:    0.3,
			MomentumWeightMACD:   0.4,
			MomentumWeightVolume: 0.3,
		},
		Signals: SignalConfig{
			MaxSignalsReturned: maxSignals,
			MaxTradePlans:      maxPlans,
			CategoryBonuses:    defaultCategoryBonuses(),
		},
	}
}

// Presets returns the three built-in profile presets, per spec §3.5's
// table.
func Presets() map[Name]UserConfig {
	return map[Name]UserConfig{
		Risky:   basePreset(Risky, 35, 65, 1.2, 1.5, 4.0, 20, 3.0, 75, 5),
		Neutral: basePreset(Neutral, 30, 70, 1.5, 2.0, 3.0, 25, 2.0, 50, 3),
		Averse:  basePreset(Averse, 25, 75, 2.0, 2.5, 2.5, 30, 1.0, 30, 2),
	}
}
