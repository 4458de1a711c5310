package domain

import "time"

// Strength classifies how strongly a Signal leans bullish or bearish.
type Strength string

const (
	StrengthStrongBullish Strength = "STRONG_BULLISH"
	StrengthBullish       Strength = "BULLISH"
	StrengthNotable       Strength = "NOTABLE"
	StrengthNeutral       Strength = "NEUTRAL"
	StrengthBearish       Strength = "BEARISH"
	StrengthStrongBearish Strength = "STRONG_BEARISH"
	StrengthSignificant   Strength = "SIGNIFICANT"
)

// IsBullish reports whether the strength leans bullish.
func (s Strength) IsBullish() bool {
	return s == StrengthStrongBullish || s == StrengthBullish
}

// IsBearish reports whether the strength leans bearish.
func (s Strength) IsBearish() bool {
	return s == StrengthStrongBearish || s == StrengthBearish
}

// Category identifies which detector family produced a Signal.
type Category string

const (
	CategoryMACross    Category = "MA_CROSS"
	CategoryMATrend    Category = "MA_TREND"
	CategoryRSI        Category = "RSI"
	CategoryMACD       Category = "MACD"
	CategoryBollinger  Category = "BOLLINGER"
	CategoryStochastic Category = "STOCHASTIC"
	CategoryVolume     Category = "VOLUME"
	CategoryTrend      Category = "TREND"
	CategoryADX        Category = "ADX"
	CategoryPriceAction Category = "PRICE_ACTION"
)

// categoryOrder fixes the deterministic ordering detect_all must preserve:
// category order, then chronological within category (spec §4.3, §5).
var categoryOrder = map[Category]int{
	CategoryMACross:     0,
	CategoryMATrend:     1,
	CategoryRSI:         2,
	CategoryMACD:        3,
	CategoryBollinger:   4,
	CategoryStochastic:  5,
	CategoryVolume:      6,
	CategoryTrend:       7,
	CategoryADX:         8,
	CategoryPriceAction: 9,
}

// CategoryOrder returns the fixed ordinal position of c in the canonical
// detection ordering.
func CategoryOrder(c Category) int { return categoryOrder[c] }

// Signal is one detected chart/momentum/volume event. Signals are
// immutable once constructed; ranking only ever produces a new Signal
// value with Score/Rationale populated, never mutates in place.
type Signal struct {
	Name        string
	Description string
	Strength    Strength
	Category    Category
	Timestamp   time.Time // bar timestamp the signal fired on, for ordering
	Value       *float64  // e.g. the RSI reading that triggered the signal
	Score       *float64  // populated only after ranking, range [0,100]
	Rationale   string    // populated only after ranking
}

// WithScore returns a copy of the signal with Score and Rationale set,
// leaving the original untouched (signals are immutable once constructed).
func (s Signal) WithScore(score float64, rationale string) Signal {
	s.Score = &score
	s.Rationale = rationale
	return s
}
