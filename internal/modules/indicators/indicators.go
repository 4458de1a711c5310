// Package indicators computes the IndicatorFrame for a BarSeries (spec
// §4.2): deterministic, side-effect-free columns derived purely from OHLCV
// data and threshold-free parameters (periods, not thresholds — those live
// in the signal detectors).
package indicators

import (
	"math"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// smaPeriods and emaPeriods are the lookback lengths spec §4.2 requires
// for both moving-average families.
var smaPeriods = []int{5, 10, 20, 50, 100, 200}
var emaPeriods = []int{5, 10, 20, 50, 100, 200}
var volumeSMAPeriods = []int{20, 50}

const (
	rsiEpsilon         = 1e-10
	realizedVolWindow  = 20
	tradingDaysPerYear = 252
)

// CalculateAll computes every column the IndicatorFrame requires from
// series, using the period lengths in cfg (thresholds in cfg are read only
// by the signal detectors, not here).
func CalculateAll(series domain.BarSeries, cfg profile.ConfigContext) domain.IndicatorFrame {
	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()
	volumes := series.Volumes()
	n := len(closes)

	frame := domain.IndicatorFrame{
		Series:    series,
		SMA:       make(map[int][]float64, len(smaPeriods)),
		EMA:       make(map[int][]float64, len(emaPeriods)),
		VolumeSMA: make(map[int][]float64, len(volumeSMAPeriods)),
	}

	for _, p := range smaPeriods {
		frame.SMA[p] = warmup(talib.Sma(closes, p), p-1)
	}
	for _, p := range emaPeriods {
		frame.EMA[p] = warmup(talib.Ema(closes, p), p-1)
	}
	for _, p := range volumeSMAPeriods {
		frame.VolumeSMA[p] = warmup(talib.Sma(volumes, p), p-1)
	}

	frame.RSI = calculateRSI(closes, cfg.RSIPeriod)

	macdLine, macdSignal, macdHist := talib.Macd(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	macdWarm := (cfg.MACDSlow - 1) + (cfg.MACDSignal - 1)
	frame.MACDLine = warmup(macdLine, macdWarm)
	frame.MACDSignal = warmup(macdSignal, macdWarm)
	frame.MACDHistogram = warmup(macdHist, macdWarm)

	upper, middle, lower := talib.BBands(closes, cfg.BollingerPeriod, cfg.BollingerStdDev, cfg.BollingerStdDev, talib.SMA)
	bbWarm := cfg.BollingerPeriod - 1
	frame.BBUpper = warmup(upper, bbWarm)
	frame.BBMiddle = warmup(middle, bbWarm)
	frame.BBLower = warmup(lower, bbWarm)
	frame.BBWidth = bbWidth(frame.BBUpper, frame.BBMiddle, frame.BBLower)

	stochK, stochD := talib.Stoch(highs, lows, closes, cfg.StochasticPeriod, 3, talib.SMA, 3, talib.SMA)
	stochWarm := (cfg.StochasticPeriod - 1) + 2 + 2
	frame.StochK = warmup(stochK, stochWarm)
	frame.StochD = warmup(stochD, stochWarm)

	frame.ADX = warmup(talib.Adx(highs, lows, closes, cfg.ADXPeriod), 2*cfg.ADXPeriod-1)
	frame.PlusDI = warmup(talib.PlusDi(highs, lows, closes, cfg.ADXPeriod), 2*cfg.ADXPeriod-1)
	frame.MinusDI = warmup(talib.MinusDi(highs, lows, closes, cfg.ADXPeriod), 2*cfg.ADXPeriod-1)

	frame.ATR = warmup(talib.Atr(highs, lows, closes, cfg.ATRPeriod), cfg.ATRPeriod)

	frame.OBV = talib.Obv(closes, volumes) // no warmup period; defined from bar 0

	frame.Change1D = percentChange(closes, 1)
	frame.Change5D = percentChange(closes, 5)

	frame.RealizedVolatility = realizedVolatility(closes, realizedVolWindow)

	_ = n
	return frame
}

// warmup overrides the first warmupLen entries of col with
// domain.Undefined, regardless of what the underlying library produced
// there: ta-lib-style libraries fill the pre-lookback region with zeros,
// which spec §4.2's "Insufficient warmup" policy forbids treating as a
// real value.
func warmup(col []float64, warmupLen int) []float64 {
	out := make([]float64, len(col))
	copy(out, col)
	if warmupLen > len(out) {
		warmupLen = len(out)
	}
	for i := 0; i < warmupLen; i++ {
		out[i] = domain.Undefined
	}
	return out
}

// calculateRSI computes Wilder's RSI with the zero-loss epsilon fix spec
// §4.2 requires: epsilon is added to the average loss before division, so a
// zero average loss never produces NaN or an infinite RS.
func calculateRSI(closes []float64, period int) []float64 {
	out := domain.NewColumn(len(closes))
	if len(closes) <= period {
		return out
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += -delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	rs := avgGain / (avgLoss + rsiEpsilon)
	return 100 - (100 / (1 + rs))
}

func bbWidth(upper, middle, lower []float64) []float64 {
	out := domain.NewColumn(len(middle))
	for i := range middle {
		if !domain.Defined(upper[i]) || !domain.Defined(middle[i]) || !domain.Defined(lower[i]) || middle[i] == 0 {
			continue
		}
		out[i] = (upper[i] - lower[i]) / middle[i]
	}
	return out
}

func percentChange(closes []float64, lag int) []float64 {
	out := domain.NewColumn(len(closes))
	for i := lag; i < len(closes); i++ {
		if closes[i-lag] == 0 {
			continue
		}
		out[i] = (closes[i] - closes[i-lag]) / closes[i-lag] * 100
	}
	return out
}

// realizedVolatility computes the annualized standard deviation of daily
// log returns over a trailing window, undefined before the window fills.
func realizedVolatility(closes []float64, window int) []float64 {
	out := domain.NewColumn(len(closes))
	if len(closes) <= window {
		return out
	}

	logReturns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			logReturns[i-1] = 0
			continue
		}
		logReturns[i-1] = math.Log(closes[i] / closes[i-1])
	}

	for i := window; i < len(closes); i++ {
		windowReturns := logReturns[i-window : i]
		sd := stat.StdDev(windowReturns, nil)
		out[i] = sd * math.Sqrt(float64(tradingDaysPerYear)) * 100
	}
	return out
}
