package fanout

import (
	"context"
	"sort"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/aristath/chartwatch/internal/modules/risk"
	"github.com/aristath/chartwatch/internal/modules/universe"
)

// QualifiedTrade is one scanner hit: a symbol whose risk qualifier
// produced at least one trade plan.
type QualifiedTrade struct {
	Symbol     string
	Assessment domain.RiskAssessment
	TopScore   float64
}

// ScanResult is the scan_trades/scan_universe RPC operation's output
// (spec §4.7, §6).
type ScanResult struct {
	Universe        universe.Name
	TotalScanned    int
	QualifiedTrades []QualifiedTrade
	Errors          []SymbolError
	Duration        time.Duration
}

// riskQualityRank orders HIGH > MEDIUM > LOW for the scanner's sort (spec
// §4.7: "Sort by (risk_quality HIGH>MEDIUM>LOW, score desc)").
func riskQualityRank(q domain.RiskQuality) int {
	switch q {
	case domain.RiskQualityHigh:
		return 2
	case domain.RiskQualityMedium:
		return 1
	default:
		return 0
	}
}

// ScanUniverse resolves name to its static symbol list and runs the
// per-symbol core across it with bounded concurrency, keeping only
// symbols whose risk qualifier emitted a plan (spec §4.7's scan_universe).
func ScanUniverse(ctx context.Context, analyzer *analysis.Analyzer, name universe.Name, maxResults int, period domain.Period, profileName profile.Name, rawOverrides map[string]any, concurrency int) (ScanResult, error) {
	started := time.Now()

	symbols, err := universe.Resolve(name)
	if err != nil {
		return ScanResult{}, err
	}

	type hit struct {
		trade QualifiedTrade
	}
	qualified, errs := forEachSymbol(ctx, symbols, concurrency, func(ctx context.Context, symbol string) (*hit, error) {
		snap, err := analyzer.AnalyzeSecurity(ctx, symbol, period, profileName, rawOverrides)
		if err != nil {
			return nil, err
		}
		assessment := risk.Qualify(snap.Series, snap.Frame, snap.Signals, snap.ConfigApplied, "")
		if assessment.Suppressed() {
			return nil, nil //nolint:nilnil // "not qualified" is not a symbol error, just a non-hit
		}
		var topScore float64
		if len(assessment.Plans) > 0 && assessment.Plans[0].PrimarySignal.Score != nil {
			topScore = *assessment.Plans[0].PrimarySignal.Score
		}
		return &hit{trade: QualifiedTrade{Symbol: symbol, Assessment: assessment, TopScore: topScore}}, nil
	})

	trades := make([]QualifiedTrade, 0, len(qualified))
	for _, h := range qualified {
		if h != nil {
			trades = append(trades, h.trade)
		}
	}

	sort.SliceStable(trades, func(i, j int) bool {
		qi, qj := riskQualityRank(trades[i].Assessment.Plans[0].RiskQuality), riskQualityRank(trades[j].Assessment.Plans[0].RiskQuality)
		if qi != qj {
			return qi > qj
		}
		return trades[i].TopScore > trades[j].TopScore
	})
	if maxResults > 0 && len(trades) > maxResults {
		trades = trades[:maxResults]
	}

	return ScanResult{
		Universe: name, TotalScanned: len(symbols),
		QualifiedTrades: trades, Errors: errs,
		Duration: time.Since(started),
	}, nil
}
