package domain

import "math"

// Undefined is the sentinel value marking a not-yet-defined indicator
// position (warmup period shorter than the indicator's lookback). It is
// never a valid indicator reading and must never be confused with zero.
var Undefined = math.Inf(-1)

// Defined reports whether v is a real, computed value rather than the
// Undefined sentinel.
func Defined(v float64) bool { return !math.IsInf(v, -1) }

// IndicatorFrame wraps a BarSeries with aligned derived columns. Every
// column has the same length as the underlying series; positions before an
// indicator's lookback window carry Undefined rather than zero. The frame
// is immutable once built by indicators.CalculateAll.
type IndicatorFrame struct {
	Series BarSeries

	SMA map[int][]float64 // keyed by period: 5,10,20,50,100,200
	EMA map[int][]float64 // keyed by period: 5,10,20,50,100,200

	RSI []float64 // default length 14

	MACDLine      []float64
	MACDSignal    []float64
	MACDHistogram []float64

	BBUpper  []float64
	BBMiddle []float64
	BBLower  []float64
	BBWidth  []float64

	StochK []float64
	StochD []float64

	ADX     []float64
	PlusDI  []float64
	MinusDI []float64

	ATR []float64

	VolumeSMA map[int][]float64 // keyed by period: 20,50
	OBV       []float64

	Change1D []float64
	Change5D []float64

	RealizedVolatility []float64 // annualized, rolling
}

// At returns the last (most recent) value of a column, and whether it is
// defined. Passing a nil column (e.g. an SMA period that was never
// requested) returns (0, false).
func At(column []float64) (float64, bool) {
	if len(column) == 0 {
		return 0, false
	}
	v := column[len(column)-1]
	return v, Defined(v)
}

// NewColumn allocates a column of length n with every position set to the
// Undefined sentinel, ready to be filled in from index `lookback-1` onward.
func NewColumn(n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = Undefined
	}
	return col
}

// LastSMA returns the most recent value of the SMA(period) column, if
// present and defined.
func (f *IndicatorFrame) LastSMA(period int) (float64, bool) {
	return At(f.SMA[period])
}

// LastEMA returns the most recent value of the EMA(period) column, if
// present and defined.
func (f *IndicatorFrame) LastEMA(period int) (float64, bool) {
	return At(f.EMA[period])
}

// LastVolumeSMA returns the most recent value of the volume SMA(period)
// column, if present and defined.
func (f *IndicatorFrame) LastVolumeSMA(period int) (float64, bool) {
	return At(f.VolumeSMA[period])
}
