package fanout

import (
	"context"
	"sort"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// Metric selects which scalar compare_securities ranks symbols by.
type Metric string

const (
	MetricChangePct Metric = "change_pct"
	MetricPrice     Metric = "price"
	MetricRSI       Metric = "rsi"
	MetricScore     Metric = "score" // top ranked signal's score
)

// Row is one ranked compare_securities result.
type Row struct {
	Symbol string
	Value  float64
	Snap   analysis.Snapshot
}

// CompareResult is compare_securities' output. Winner is nil when every
// symbol failed — the known reference defect spec §9 calls out is
// unconditionally dereferencing results[0]; this type structurally
// prevents that by making Winner a pointer the caller must nil-check.
type CompareResult struct {
	Rows   []Row
	Winner *Row
	Errors []SymbolError
}

func metricValue(metric Metric, snap analysis.Snapshot) float64 {
	switch metric {
	case MetricPrice:
		return snap.Price
	case MetricRSI:
		v, _ := domain.At(snap.Frame.RSI)
		return v
	case MetricScore:
		if len(snap.Signals) > 0 && snap.Signals[0].Score != nil {
			return *snap.Signals[0].Score
		}
		return 0
	default:
		return snap.ChangePct
	}
}

// CompareSecurities runs the core for each symbol and ranks them by
// metric, descending (spec §4.7's compare operation).
func CompareSecurities(ctx context.Context, analyzer *analysis.Analyzer, symbols []string, metric Metric, period domain.Period, profileName profile.Name, rawOverrides map[string]any, concurrency int) CompareResult {
	if metric == "" {
		metric = MetricChangePct
	}

	rows, errs := forEachSymbol(ctx, symbols, concurrency, func(ctx context.Context, symbol string) (Row, error) {
		snap, err := analyzer.AnalyzeSecurity(ctx, symbol, period, profileName, rawOverrides)
		if err != nil {
			return Row{}, err
		}
		return Row{Symbol: symbol, Value: metricValue(metric, snap), Snap: snap}, nil
	})

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })

	var winner *Row
	if len(rows) > 0 {
		w := rows[0]
		winner = &w
	}

	return CompareResult{Rows: rows, Winner: winner, Errors: errs}
}
