// Package domain provides the core value types shared across the
// technical-analysis pipeline: bar series, indicator frames, signals, and
// the risk-qualification outcomes (trade plans and suppressions).
package domain

import "time"

// Period identifies the granularity and lookback window of a BarSeries.
// It is used only for documentation and minimum-length checks; the core
// pipeline behaves identically regardless of period.
type Period string

// Valid period values, per spec §6. An invalid period must be rejected
// with a validation error listing these values, never silently coerced.
const (
	Period15m Period = "15m"
	Period1h  Period = "1h"
	Period4h  Period = "4h"
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
	Period10y Period = "10y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"
)

// ValidPeriods lists every accepted Period value, in the order they should
// be shown to a caller that supplied an invalid one.
var ValidPeriods = []Period{
	Period15m, Period1h, Period4h, Period1d, Period5d,
	Period1mo, Period3mo, Period6mo, Period1y, Period2y,
	Period5y, Period10y, PeriodYTD, PeriodMax,
}

// IsValidPeriod reports whether p is one of ValidPeriods.
func IsValidPeriod(p Period) bool {
	for _, v := range ValidPeriods {
		if v == p {
			return true
		}
	}
	return false
}

// IsIntraday reports whether the period represents sub-daily bars, which
// biases the risk qualifier's timeframe selection toward day/scalp trading.
func (p Period) IsIntraday() bool {
	return p == Period15m || p == Period1h || p == Period4h
}

// Bar is a single OHLCV observation.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// BarSeries is an ordered, strictly-increasing-timestamp sequence of bars
// for one symbol, tagged with the period it was requested at. Gaps between
// timestamps are permitted; the series is never mutated after it is built.
type BarSeries struct {
	Symbol string
	Period Period
	Bars   []Bar
}

// Len returns the number of bars in the series.
func (s BarSeries) Len() int { return len(s.Bars) }

// Closes returns the closing prices in series order. The returned slice is
// a fresh copy; callers may not mutate BarSeries through it.
func (s BarSeries) Closes() []float64 { return s.column(func(b Bar) float64 { return b.Close }) }

// Opens returns the opening prices in series order.
func (s BarSeries) Opens() []float64 { return s.column(func(b Bar) float64 { return b.Open }) }

// Highs returns the high prices in series order.
func (s BarSeries) Highs() []float64 { return s.column(func(b Bar) float64 { return b.High }) }

// Lows returns the low prices in series order.
func (s BarSeries) Lows() []float64 { return s.column(func(b Bar) float64 { return b.Low }) }

// Volumes returns the volumes in series order.
func (s BarSeries) Volumes() []float64 { return s.column(func(b Bar) float64 { return b.Volume }) }

func (s BarSeries) column(f func(Bar) float64) []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = f(b)
	}
	return out
}

// Last returns the most recent bar. Callers must check Len() > 0 first;
// calling Last on an empty series is a programmer error and panics.
func (s BarSeries) Last() Bar {
	if len(s.Bars) == 0 {
		panic("domain: Last called on empty BarSeries")
	}
	return s.Bars[len(s.Bars)-1]
}

// MinLengthFor returns the minimum number of bars required for a lookback
// of n periods (an SMA/EMA/RSI/etc. of length n needs n bars to produce its
// first defined value).
func MinLengthFor(n int) int { return n }
