package fanout

import (
	"context"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// Criteria is the boolean filter screen_securities applies to each
// symbol's per-symbol output (spec §4.7). A zero-valued bound is treated
// as "no constraint" on that field.
type Criteria struct {
	MinRSI            *float64
	MaxRSI            *float64
	MinScore          *float64
	MinBullishSignals int
}

func (c Criteria) matches(snap analysis.Snapshot) bool {
	if c.MinRSI != nil || c.MaxRSI != nil {
		rsi, ok := domain.At(snap.Frame.RSI)
		if !ok {
			return false
		}
		if c.MinRSI != nil && rsi < *c.MinRSI {
			return false
		}
		if c.MaxRSI != nil && rsi > *c.MaxRSI {
			return false
		}
	}

	if c.MinScore != nil {
		if len(snap.Signals) == 0 || snap.Signals[0].Score == nil || *snap.Signals[0].Score < *c.MinScore {
			return false
		}
	}

	if c.MinBullishSignals > 0 {
		bullish := 0
		for _, s := range snap.Signals {
			if s.Strength.IsBullish() {
				bullish++
			}
		}
		if bullish < c.MinBullishSignals {
			return false
		}
	}

	return true
}

// Match is one screen_securities hit.
type Match struct {
	Symbol string
	Snap   analysis.Snapshot
}

// ScreenResult is screen_securities' output.
type ScreenResult struct {
	Matches   []Match
	ScanCount int
	Errors    []SymbolError
}

// ScreenSecurities runs the core for each symbol and keeps those
// satisfying criteria (spec §4.7's screen operation).
func ScreenSecurities(ctx context.Context, analyzer *analysis.Analyzer, symbols []string, criteria Criteria, period domain.Period, profileName profile.Name, rawOverrides map[string]any, concurrency int) ScreenResult {
	type outcome struct {
		match *Match
	}

	outcomes, errs := forEachSymbol(ctx, symbols, concurrency, func(ctx context.Context, symbol string) (outcome, error) {
		snap, err := analyzer.AnalyzeSecurity(ctx, symbol, period, profileName, rawOverrides)
		if err != nil {
			return outcome{}, err
		}
		if !criteria.matches(snap) {
			return outcome{}, nil
		}
		return outcome{match: &Match{Symbol: symbol, Snap: snap}}, nil
	})

	matches := make([]Match, 0, len(outcomes))
	for _, o := range outcomes {
		if o.match != nil {
			matches = append(matches, *o.match)
		}
	}

	return ScreenResult{Matches: matches, ScanCount: len(symbols), Errors: errs}
}
