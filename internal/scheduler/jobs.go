package scheduler

import (
	"context"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/fanout"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/rs/zerolog"
)

// MorningBriefJob runs BuildMorningBrief against a fixed watchlist on a
// schedule (e.g. weekday mornings before the open) and logs the result,
// mirroring trader-go's pattern of a Job wrapping one fan-out operation.
type MorningBriefJob struct {
	log         zerolog.Logger
	analyzer    *analysis.Analyzer
	watchlist   []string
	period      domain.Period
	riskProfile profile.Name
	concurrency int
	timeout     time.Duration
}

// NewMorningBriefJob constructs a MorningBriefJob. timeout bounds how long
// a single scheduled run may take before its context is cancelled.
func NewMorningBriefJob(log zerolog.Logger, analyzer *analysis.Analyzer, watchlist []string, period domain.Period, riskProfile profile.Name, concurrency int, timeout time.Duration) *MorningBriefJob {
	return &MorningBriefJob{
		log:         log.With().Str("job", "morning_brief").Logger(),
		analyzer:    analyzer,
		watchlist:   watchlist,
		period:      period,
		riskProfile: riskProfile,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

func (j *MorningBriefJob) Name() string { return "morning_brief" }

func (j *MorningBriefJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	brief := fanout.BuildMorningBrief(ctx, j.analyzer, j.watchlist, j.period, j.riskProfile, j.concurrency)

	qualified := 0
	for _, entry := range brief.Entries {
		if len(entry.Assessment.Plans) > 0 {
			qualified++
		}
	}
	j.log.Info().
		Int("entries", len(brief.Entries)).
		Int("qualified", qualified).
		Int("errors", len(brief.Errors)).
		Msg("morning brief generated")

	return nil
}

// cacheSweeper is the subset of persistence.SQLiteStore the sweep job
// needs; a narrow interface keeps this package from depending on the
// concrete store type.
type cacheSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// CacheSweepJob deletes expired analyses/scans rows from the store on a
// schedule, since SQLiteStore never sweeps on its own between reads.
type CacheSweepJob struct {
	log     zerolog.Logger
	store   cacheSweeper
	timeout time.Duration
}

// NewCacheSweepJob constructs a CacheSweepJob. store is typically a
// *persistence.SQLiteStore.
func NewCacheSweepJob(log zerolog.Logger, store cacheSweeper, timeout time.Duration) *CacheSweepJob {
	return &CacheSweepJob{
		log:     log.With().Str("job", "cache_sweep").Logger(),
		store:   store,
		timeout: timeout,
	}
}

func (j *CacheSweepJob) Name() string { return "cache_sweep" }

func (j *CacheSweepJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	removed, err := j.store.SweepExpired(ctx)
	if err != nil {
		return err
	}
	j.log.Info().Int64("rows_removed", removed).Msg("cache sweep completed")
	return nil
}
