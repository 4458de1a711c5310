// Command server runs chartwatch's HTTP API: the per-symbol analyze
// operations plus scan/compare/screen/portfolio_risk/morning_brief
// fan-out, backed by a market data provider, a rule-based or
// LLM-assisted ranker, and an optional sqlite-backed result store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/chartwatch/internal/config"
	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/marketdata"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/aristath/chartwatch/internal/modules/ranking"
	"github.com/aristath/chartwatch/internal/modules/signals"
	"github.com/aristath/chartwatch/internal/persistence"
	"github.com/aristath/chartwatch/internal/scheduler"
	"github.com/aristath/chartwatch/internal/server"
	"github.com/aristath/chartwatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Level: "info", Pretty: true}).
			Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	log.Info().Msg("starting chartwatch")

	provider := marketdata.NewCachedProvider(
		marketdata.NewHTTPProvider(cfg.ProviderBaseURL, cfg.ProviderAPIKey, 3, log),
		5*time.Minute, 1000,
	)

	detectors := signals.NewPopulatedRegistry(log)
	ranker := wireRanker(cfg, log)

	cache := analysis.NewCache(0, 0)
	analyzer := analysis.New(provider, detectors, ranker, cache, log)

	store, closeStore := wireStore(cfg, log)
	if closeStore != nil {
		defer closeStore()
	}

	sched := scheduler.New(log)
	registerJobs(sched, cfg, analyzer, store, log)
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:         log,
		AppConfig:   cfg,
		Analyzer:    analyzer,
		Store:       store,
		Concurrency: cfg.FanOutConcurrency,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()
	log.Info().Int("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}

// wireRanker builds the ranking.Ranker chain: a RemoteRanker backed by
// the configured LLM credential, falling back to the deterministic
// RuleBasedRanker on any remote failure (spec §4.4). When the ranker is
// disabled or no credential is configured, RuleBasedRanker runs alone.
func wireRanker(cfg *config.Config, log zerolog.Logger) ranking.Ranker {
	rule := ranking.RuleBasedRanker{}
	if !cfg.RankerEnabled || cfg.RankerAPIKey == "" {
		return rule
	}

	remote := ranking.NewRemoteRanker(ranking.RemoteRankerConfig{
		APIKey: cfg.RankerAPIKey,
	}, log)

	return ranking.NewFallbackRanker(remote, rule, log)
}

// wireStore builds the persistence layer: a sqlite document store,
// optionally wrapped with an S3-compatible backup mirror when a bucket
// is configured. The returned close func is nil if store construction
// failed, in which case the server runs with persistence disabled
// rather than refusing to start.
func wireStore(cfg *config.Config, log zerolog.Logger) (persistence.Store, func()) {
	path := cfg.DataDir + "/chartwatch.db"
	sqliteStore, err := persistence.NewSQLiteStore(path, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to open persistence store, continuing without one")
		return nil, nil
	}

	var store persistence.Store = sqliteStore
	if cfg.S3BackupBucket != "" {
		backup, err := persistence.NewS3Backup(context.Background(), sqliteStore, persistence.S3Config{
			Bucket:          cfg.S3BackupBucket,
			Region:          cfg.S3BackupRegion,
			Endpoint:        cfg.S3BackupEndpoint,
			AccessKeyID:     cfg.S3BackupAccessKeyID,
			SecretAccessKey: cfg.S3BackupSecretAccessKey,
		}, log)
		if err != nil {
			log.Error().Err(err).Msg("failed to wire S3 backup mirror, continuing without it")
		} else {
			store = backup
			log.Info().Str("bucket", cfg.S3BackupBucket).Msg("S3 backup mirror enabled")
		}
	}

	return store, func() { _ = sqliteStore.Close() }
}

// registerJobs wires the scheduled background jobs: the morning brief
// (skipped when no watchlist is configured) and the persistence cache
// sweep (skipped when persistence is disabled).
func registerJobs(sched *scheduler.Scheduler, cfg *config.Config, analyzer *analysis.Analyzer, store persistence.Store, log zerolog.Logger) {
	if len(cfg.MorningBriefWatchlist) > 0 {
		job := scheduler.NewMorningBriefJob(log, analyzer, cfg.MorningBriefWatchlist, domain.Period1y, profile.Neutral, cfg.FanOutConcurrency, 2*time.Minute)
		if err := sched.AddJob(cfg.MorningBriefSchedule, job); err != nil {
			log.Error().Err(err).Msg("failed to register morning brief job")
		}
	} else {
		log.Info().Msg("no morning brief watchlist configured, skipping scheduled job")
	}

	if store == nil {
		return
	}
	if sweeper, ok := store.(interface {
		SweepExpired(ctx context.Context) (int64, error)
	}); ok {
		job := scheduler.NewCacheSweepJob(log, sweeper, 30*time.Second)
		if err := sched.AddJob(cfg.CacheSweepSchedule, job); err != nil {
			log.Error().Err(err).Msg("failed to register cache sweep job")
		}
	}
}
