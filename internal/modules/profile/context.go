package profile

import "github.com/aristath/chartwatch/internal/domain"

// ConfigContext is the flattened, read-only scalar view of a UserConfig
// (spec §4.6): indicator, detector, and risk code reads fields off of this
// directly instead of reaching into UserConfig's nested sub-records, so
// none of them need to know which sub-record originally owned a field.
type ConfigContext struct {
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

	StopATRSwing       float64
	StopATRDay         float64
	StopATRScalp       float64
	StopMinATRMultiple float64
	StopMaxATRMultiple float64

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

	TopKForBias          int
	MomentumWeightRSI    float64
	MomentumWeightMACD   float64
	MomentumWeightVolume float64

	MaxSignalsReturned int
	MaxTradePlans      int
	CategoryBonuses    map[domain.Category]float64
}

// Flatten builds the ConfigContext view of c.
func (c UserConfig) Flatten() ConfigContext {
	return ConfigContext{
		RSIPeriod:            c.Indicators.RSIPeriod,
		RSIOversold:          c.Indicators.RSIOversold,
		RSIOverbought:        c.Indicators.RSIOverbought,
		RSIExtremeOversold:   c.Indicators.RSIExtremeOversold,
		RSIExtremeOverbought: c.Indicators.RSIExtremeOverbought,
		MACDFast:             c.Indicators.MACDFast,
		MACDSlow:             c.Indicators.MACDSlow,
		MACDSignal:           c.Indicators.MACDSignal,
		BollingerPeriod:      c.Indicators.BollingerPeriod,
		BollingerStdDev:      c.Indicators.BollingerStdDev,
		StochasticPeriod:     c.Indicators.StochasticPeriod,
		StochasticOversold:   c.Indicators.StochasticOversold,
		StochasticOverbought: c.Indicators.StochasticOverbought,
		ADXPeriod:            c.Indicators.ADXPeriod,
		ADXTrending:          c.Indicators.ADXTrending,
		ADXNoTrend:           c.Indicators.ADXNoTrend,
		ATRPeriod:            c.Indicators.ATRPeriod,
		LargeMovePct:         c.Indicators.LargeMovePct,
		GapThresholdPct:      c.Indicators.GapThresholdPct,
		VolumeSpikeMultiple:   c.Indicators.VolumeSpikeMultiple,
		VolumeExtremeMultiple: c.Indicators.VolumeExtremeMultiple,
		VolumeDryUpMultiple:   c.Indicators.VolumeDryUpMultiple,

		StopATRSwing:       c.Risk.StopATRSwing,
		StopATRDay:         c.Risk.StopATRDay,
		StopATRScalp:       c.Risk.StopATRScalp,
		StopMinATRMultiple: c.Risk.StopMinATRMultiple,
		StopMaxATRMultiple: c.Risk.StopMaxATRMultiple,
		MinRRRatio:         c.Risk.MinRRRatio,
		PreferredRRRatio:   c.Risk.PreferredRRRatio,
		VolatilityLow:      c.Risk.VolatilityLow,
		VolatilityHigh:     c.Risk.VolatilityHigh,
		PositionRiskPct:    c.Risk.PositionRiskPct,
		SignalConflictPct:  c.Risk.SignalConflictPct,
		SwingLookback:      c.Risk.SwingLookback,

		OptionMinExpectedMove: c.Risk.OptionMinExpectedMove,
		CallDeltaMin:          c.Risk.CallDeltaMin,
		CallDeltaMax:          c.Risk.CallDeltaMax,
		PutDeltaMin:           c.Risk.PutDeltaMin,
		PutDeltaMax:           c.Risk.PutDeltaMax,
		OptionSwingMinDTE:     c.Risk.OptionSwingMinDTE,
		OptionSwingMaxDTE:     c.Risk.OptionSwingMaxDTE,
		OptionSpreadWidthATR:  c.Risk.OptionSpreadWidthATR,

		TopKForBias:          c.Momentum.TopKForBias,
		MomentumWeightRSI:    c.Momentum.MomentumWeightRSI,
		MomentumWeightMACD:   c.Momentum.MomentumWeightMACD,
		MomentumWeightVolume: c.Momentum.MomentumWeightVolume,

		MaxSignalsReturned: c.Signals.MaxSignalsReturned,
		MaxTradePlans:      c.Signals.MaxTradePlans,
		CategoryBonuses:    c.Signals.CategoryBonuses,
	}
}
