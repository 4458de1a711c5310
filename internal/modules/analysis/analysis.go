// Package analysis wires the per-symbol core together (spec §2's "Data →
// Indicators → Signal detection → Ranking → Risk qualification" pipeline)
// behind the two operations the RPC surface exposes for a single symbol:
// analyze_security and get_trade_plan.
package analysis

import (
	"context"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/marketdata"
	"github.com/aristath/chartwatch/internal/modules/indicators"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/aristath/chartwatch/internal/modules/ranking"
	"github.com/aristath/chartwatch/internal/modules/risk"
	"github.com/aristath/chartwatch/internal/modules/signals"
	"github.com/rs/zerolog"
)

// minimumViableBars returns the shortest lookback across cfg's configured
// indicator periods, plus one bar so that indicator's first value is
// actually defined. A series shorter than this can't produce a single
// indicator column and the whole analysis is reported as
// INSUFFICIENT_DATA (spec §4.1, §7 "per-symbol fatal when no indicator at
// all can be computed"). A series at or above it but still short of, say,
// the 200-bar SMA/EMA is not rejected: indicators.CalculateAll already
// reports those individual columns absent via domain.Undefined (spec
// §3.1: "insufficient length is a hard error for that indicator, not for
// the whole analysis").
func minimumViableBars(cfg profile.ConfigContext) int {
	shortest := cfg.RSIPeriod
	for _, p := range []int{cfg.MACDFast, cfg.BollingerPeriod, cfg.StochasticPeriod, cfg.ADXPeriod, cfg.ATRPeriod} {
		if p < shortest {
			shortest = p
		}
	}
	return shortest + 1
}

// Snapshot is the analyze_security result: an indicators snapshot plus
// ranked, truncated signals and the config that produced them (spec §6).
type Snapshot struct {
	Symbol        string
	Timestamp     time.Time
	Price         float64
	ChangePct     float64
	Series        domain.BarSeries
	Frame         domain.IndicatorFrame
	Signals       []domain.Signal
	ConfigApplied profile.ConfigContext
}

// Analyzer runs the per-symbol core: fetch, compute indicators, detect
// signals, rank, and (on demand) qualify risk. It holds no per-request
// state and is safe for concurrent use, which is what lets the fan-out
// layer share a single Analyzer across a worker pool. The cache is
// optional: a nil cache simply means every call recomputes.
type Analyzer struct {
	provider  marketdata.Provider
	detectors *signals.Registry
	ranker    ranking.Ranker
	cache     *Cache
	log       zerolog.Logger
}

// New builds an Analyzer from its collaborators. Pass a nil cache to
// disable the analysis-cache layer entirely.
func New(provider marketdata.Provider, detectors *signals.Registry, ranker ranking.Ranker, cache *Cache, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		provider:  provider,
		detectors: detectors,
		ranker:    ranker,
		cache:     cache,
		log:       log.With().Str("component", "analysis").Logger(),
	}
}

// AnalyzeSecurity implements the analyze_security RPC operation (spec
// §6): fetch bars, compute the indicator frame, detect and rank signals,
// truncate to config.signals.max_signals_returned. rawOverrides is the
// flat override map as it arrives over the wire; it is both parsed into
// typed Overrides and fingerprinted for the cache key (spec §3.6).
func (a *Analyzer) AnalyzeSecurity(ctx context.Context, symbol string, period domain.Period, profileName profile.Name, rawOverrides map[string]any) (Snapshot, error) {
	if !domain.IsValidPeriod(period) {
		return Snapshot{}, domain.NewError(domain.CodeInvalidPeriod, "unrecognized period: "+string(period))
	}

	fingerprint, err := Fingerprint(rawOverrides)
	if err != nil {
		return Snapshot{}, domain.Wrap(domain.CodeInvalidOverride, "could not fingerprint overrides", err)
	}
	key := CacheKey{Symbol: symbol, Period: period, ProfileName: profileName, OverrideFingerprint: fingerprint}

	if a.cache != nil {
		if snap, ok := a.cache.Get(key); ok {
			return snap, nil
		}
	}

	overrides, err := profile.ParseOverrides(rawOverrides)
	if err != nil {
		return Snapshot{}, err
	}
	userCfg, err := profile.Resolve(profileName, overrides)
	if err != nil {
		return Snapshot{}, err
	}
	cfg := userCfg.Flatten()

	series, err := a.provider.FetchBars(ctx, symbol, period)
	if err != nil {
		return Snapshot{}, err
	}
	if err := marketdata.EnsureMinLength(series, minimumViableBars(cfg)); err != nil {
		return Snapshot{}, err
	}

	frame := indicators.CalculateAll(series, cfg)
	detected := a.detectors.DetectAll(frame, cfg)

	ranked, err := a.ranker.Rank(ctx, detected, frame, cfg)
	if err != nil {
		// FallbackRanker never returns an error (it always falls back to
		// RuleBasedRanker locally); a caller wiring in a bare Ranker that
		// can fail is the only way this path is reached.
		return Snapshot{}, domain.Wrap(domain.CodeCalculationError, "ranking failed and was not recovered", err)
	}
	if cfg.MaxSignalsReturned > 0 && len(ranked) > cfg.MaxSignalsReturned {
		ranked = ranked[:cfg.MaxSignalsReturned]
	}

	last := series.Last()
	changePct, _ := domain.At(frame.Change1D)

	snap := Snapshot{
		Symbol: symbol, Timestamp: last.Timestamp, Price: last.Close, ChangePct: changePct,
		Series: series, Frame: frame, Signals: ranked, ConfigApplied: cfg,
	}
	if a.cache != nil {
		a.cache.Put(key, snap)
	}
	return snap, nil
}

// GetTradePlan implements the get_trade_plan RPC operation (spec §6): runs
// the full core, then feeds its output through the risk qualifier.
func (a *Analyzer) GetTradePlan(ctx context.Context, symbol string, period domain.Period, profileName profile.Name, rawOverrides map[string]any, timeframeHint domain.Timeframe) (domain.RiskAssessment, error) {
	snap, err := a.AnalyzeSecurity(ctx, symbol, period, profileName, rawOverrides)
	if err != nil {
		return domain.RiskAssessment{}, err
	}
	return risk.Qualify(snap.Series, snap.Frame, snap.Signals, snap.ConfigApplied, timeframeHint), nil
}
