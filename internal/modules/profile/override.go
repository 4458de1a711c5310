package profile

import (
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
)

// Override is a typed sum type over the four UserConfig sub-records: every
// accepted override key resolves to exactly one of these variants, so
// Resolve never touches a field it wasn't asked to touch (spec §3.5's
// Design Note, §9).
type Override interface {
	apply(UserConfig) UserConfig
}

// IndicatorOverride overrides a single IndicatorConfig field.
type IndicatorOverride struct {
	Field string
	Value float64
}

// RiskOverride overrides a single RiskConfig field.
type RiskOverride struct {
	Field string
	Value float64
}

// MomentumOverride overrides a single MomentumConfig field.
type MomentumOverride struct {
	Field string
	Value float64
}

// SignalOverride overrides a single SignalConfig field.
type SignalOverride struct {
	Field string
	Value float64
}

func (o IndicatorOverride) apply(c UserConfig) UserConfig {
	ind := c.Indicators
	switch o.Field {
	case "rsi_period":
		ind.RSIPeriod = int(o.Value)
	case "rsi_oversold":
		ind.RSIOversold = o.Value
	case "rsi_overbought":
		ind.RSIOverbought = o.Value
	case "rsi_extreme_oversold":
		ind.RSIExtremeOversold = o.Value
	case "rsi_extreme_overbought":
		ind.RSIExtremeOverbought = o.Value
	case "macd_fast":
		ind.MACDFast = int(o.Value)
	case "macd_slow":
		ind.MACDSlow = int(o.Value)
	case "macd_signal":
		ind.MACDSignal = int(o.Value)
	case "bollinger_period":
		ind.BollingerPeriod = int(o.Value)
	case "bollinger_stddev":
		ind.BollingerStdDev = o.Value
	case "stochastic_period":
		ind.StochasticPeriod = int(o.Value)
	case "stochastic_oversold":
		ind.StochasticOversold = o.Value
	case "stochastic_overbought":
		ind.StochasticOverbought = o.Value
	case "adx_period":
		ind.ADXPeriod = int(o.Value)
	case "adx_trending":
		ind.ADXTrending = o.Value
	case "adx_no_trend":
		ind.ADXNoTrend = o.Value
	case "atr_period":
		ind.ATRPeriod = int(o.Value)
	case "large_move_pct":
		ind.LargeMovePct = o.Value
	case "gap_threshold_pct":
		ind.GapThresholdPct = o.Value
	case "volume_spike_multiple":
		ind.VolumeSpikeMultiple = o.Value
	case "volume_extreme_multiple":
		ind.VolumeExtremeMultiple = o.Value
	case "volume_dryup_multiple":
		ind.VolumeDryUpMultiple = o.Value
	}
	c.Indicators = ind
	return c
}

func (o RiskOverride) apply(c UserConfig) UserConfig {
	r := c.Risk
	switch o.Field {
	case "stop_atr_swing":
		r.StopATRSwing = o.Value
	case "stop_atr_day":
		r.StopATRDay = o.Value
	case "stop_atr_scalp":
		r.StopATRScalp = o.Value
	case "stop_min_atr_multiple":
		r.StopMinATRMultiple = o.Value
	case "stop_max_atr_multiple":
		r.StopMaxATRMultiple = o.Value
	case "min_rr_ratio":
		r.MinRRRatio = o.Value
	case "preferred_rr_ratio":
		r.PreferredRRRatio = o.Value
	case "volatility_low":
		r.VolatilityLow = o.Value
	case "volatility_high":
		r.VolatilityHigh = o.Value
	case "position_risk_pct":
		r.PositionRiskPct = o.Value
	case "signal_conflict_pct":
		r.SignalConflictPct = o.Value
	case "swing_lookback":
		r.SwingLookback = int(o.Value)
	case "option_min_expected_move":
		r.OptionMinExpectedMove = o.Value
	case "call_delta_min":
		r.CallDeltaMin = o.Value
	case "call_delta_max":
		r.CallDeltaMax = o.Value
	case "put_delta_min":
		r.PutDeltaMin = o.Value
	case "put_delta_max":
		r.PutDeltaMax = o.Value
	case "option_swing_min_dte":
		r.OptionSwingMinDTE = int(o.Value)
	case "option_swing_max_dte":
		r.OptionSwingMaxDTE = int(o.Value)
	case "option_spread_width_atr":
		r.OptionSpreadWidthATR = o.Value
	}
	c.Risk = r
	return c
}

func (o MomentumOverride) apply(c UserConfig) UserConfig {
	m := c.Momentum
	switch o.Field {
	case "top_k_for_bias":
		m.TopKForBias = int(o.Value)
	case "momentum_weight_rsi":
		m.MomentumWeightRSI = o.Value
	case "momentum_weight_macd":
		m.MomentumWeightMACD = o.Value
	case "momentum_weight_volume":
		m.MomentumWeightVolume = o.Value
	}
	c.Momentum = m
	return c
}

func (o SignalOverride) apply(c UserConfig) UserConfig {
	s := c.Signals
	switch o.Field {
	case "max_signals_returned":
		s.MaxSignalsReturned = int(o.Value)
	case "max_trade_plans":
		s.MaxTradePlans = int(o.Value)
	}
	c.Signals = s
	return c
}

// fieldRoute maps a flat override key to the sub-record it belongs to.
// This is the single source of truth for which keys Resolve accepts; it
// must stay in lockstep with the switch statements above.
var fieldRoute = map[string]string{
	"rsi_period": "indicator", "rsi_oversold": "indicator", "rsi_overbought": "indicator",
	"rsi_extreme_oversold": "indicator", "rsi_extreme_overbought": "indicator",
	"macd_fast": "indicator", "macd_slow": "indicator", "macd_signal": "indicator",
	"bollinger_period": "indicator", "bollinger_stddev": "indicator",
	"stochastic_period": "indicator", "stochastic_oversold": "indicator", "stochastic_overbought": "indicator",
	"adx_period": "indicator", "adx_trending": "indicator", "adx_no_trend": "indicator",
	"atr_period": "indicator", "large_move_pct": "indicator", "gap_threshold_pct": "indicator",
	"volume_spike_multiple": "indicator", "volume_extreme_multiple": "indicator", "volume_dryup_multiple": "indicator",

	"stop_atr_swing": "risk", "stop_atr_day": "risk", "stop_atr_scalp": "risk",
	"stop_min_atr_multiple": "risk", "stop_max_atr_multiple": "risk",
	"min_rr_ratio": "risk", "preferred_rr_ratio": "risk",
	"volatility_low": "risk", "volatility_high": "risk",
	"position_risk_pct": "risk", "signal_conflict_pct": "risk", "swing_lookback": "risk",
	"option_min_expected_move": "risk", "call_delta_min": "risk", "call_delta_max": "risk",
	"put_delta_min": "risk", "put_delta_max": "risk",
	"option_swing_min_dte": "risk", "option_swing_max_dte": "risk", "option_spread_width_atr": "risk",

	"top_k_for_bias": "momentum", "momentum_weight_rsi": "momentum",
	"momentum_weight_macd": "momentum", "momentum_weight_volume": "momentum",

	"max_signals_returned": "signal", "max_trade_plans": "signal",
}

// ParseOverrides converts a flat key->value map (as received over the wire)
// into typed Override variants. Every key is validated against fieldRoute
// before any override is applied; on failure it returns a domain.Error of
// code INVALID_OVERRIDE carrying every offending key, not just the first
// (spec §3.5's Design Note).
func ParseOverrides(raw map[string]any) ([]Override, error) {
	var bad []string
	overrides := make([]Override, 0, len(raw))
	for key, v := range raw {
		route, ok := fieldRoute[key]
		if !ok {
			bad = append(bad, key)
			continue
		}
		value, ok := toFloat64(v)
		if !ok {
			bad = append(bad, key)
			continue
		}
		switch route {
		case "indicator":
			overrides = append(overrides, IndicatorOverride{Field: key, Value: value})
		case "risk":
			overrides = append(overrides, RiskOverride{Field: key, Value: value})
		case "momentum":
			overrides = append(overrides, MomentumOverride{Field: key, Value: value})
		case "signal":
			overrides = append(overrides, SignalOverride{Field: key, Value: value})
		}
	}
	if len(bad) > 0 {
		return nil, (&domain.Error{
			Code:    domain.CodeInvalidOverride,
			Message: fmt.Sprintf("unknown or malformed override key(s): %v", bad),
			Keys:    bad,
		})
	}
	return overrides, nil
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Resolve builds the final UserConfig for profileName with overrides
// applied on top, in the order given. Unknown profile names yield a
// domain.Error of code UNKNOWN_PROFILE.
func Resolve(profileName Name, overrides []Override) (UserConfig, error) {
	preset, ok := Presets()[profileName]
	if !ok {
		return UserConfig{}, domain.NewError(domain.CodeUnknownProfile, fmt.Sprintf("unknown profile %q", profileName))
	}
	cfg := preset
	for _, o := range overrides {
		cfg = o.apply(cfg)
	}
	return cfg, nil
}
