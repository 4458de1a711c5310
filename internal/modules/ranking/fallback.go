package ranking

import (
	"context"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/rs/zerolog"
)

// FallbackRanker tries Primary first and falls back to Secondary on any
// error, so the overall analysis never fails because ranking failed (spec
// §4.4). Primary is typically a RemoteRanker; Secondary is typically
// RuleBasedRanker.
type FallbackRanker struct {
	Primary   Ranker
	Secondary Ranker
	log       zerolog.Logger
}

// NewFallbackRanker builds a FallbackRanker.
func NewFallbackRanker(primary, secondary Ranker, log zerolog.Logger) *FallbackRanker {
	return &FallbackRanker{
		Primary:   primary,
		Secondary: secondary,
		log:       log.With().Str("component", "ranking.fallback").Logger(),
	}
}

// Rank implements Ranker.
func (f *FallbackRanker) Rank(ctx context.Context, signals []domain.Signal, frame domain.IndicatorFrame, cfg profile.ConfigContext) ([]domain.Signal, error) {
	if f.Primary != nil {
		ranked, err := f.Primary.Rank(ctx, signals, frame, cfg)
		if err == nil {
			return ranked, nil
		}
		f.log.Warn().Err(err).Str("symbol", frame.Series.Symbol).Msg("primary ranker failed, falling back to rule-based ranking")
	}
	return f.Secondary.Rank(ctx, signals, frame, cfg)
}
