package fanout

import (
	"context"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/aristath/chartwatch/internal/modules/risk"
)

// BriefEntry is one watchlist symbol's structured morning-brief summary.
// Narrative glue (prose, economic calendar, rotation commentary) is out of
// scope; this is the structured data a caller renders that prose from.
type BriefEntry struct {
	Symbol     string
	Price      float64
	ChangePct  float64
	TopSignal  *domain.Signal
	Assessment domain.RiskAssessment
}

// MorningBrief is the morning_brief RPC operation's output (spec §6:
// "composed summary (delegates to core for each symbol)").
type MorningBrief struct {
	GeneratedAt time.Time
	Entries     []BriefEntry
	Errors      []SymbolError
}

// BuildMorningBrief runs the per-symbol core and risk qualifier across a
// watchlist, returning one structured entry per symbol in watchlist order.
func BuildMorningBrief(ctx context.Context, analyzer *analysis.Analyzer, watchlist []string, period domain.Period, profileName profile.Name, concurrency int) MorningBrief {
	entries, errs := forEachSymbol(ctx, watchlist, concurrency, func(ctx context.Context, symbol string) (BriefEntry, error) {
		snap, err := analyzer.AnalyzeSecurity(ctx, symbol, period, profileName, nil)
		if err != nil {
			return BriefEntry{}, err
		}
		assessment := risk.Qualify(snap.Series, snap.Frame, snap.Signals, snap.ConfigApplied, "")

		var top *domain.Signal
		if len(snap.Signals) > 0 {
			s := snap.Signals[0]
			top = &s
		}

		return BriefEntry{
			Symbol: symbol, Price: snap.Price, ChangePct: snap.ChangePct,
			TopSignal: top, Assessment: assessment,
		}, nil
	})

	return MorningBrief{GeneratedAt: briefGeneratedAt(), Entries: entries, Errors: errs}
}

// briefGeneratedAt is the clock MorningBrief.GeneratedAt is read from: the
// real wall clock.
var briefGeneratedAt = time.Now
