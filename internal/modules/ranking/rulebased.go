package ranking

import (
	"context"
	"fmt"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// RuleBasedRanker is the deterministic, always-available ranking strategy
// of spec §4.4: score is a function of strength keyword plus a category
// bonus from config.signals.category_bonuses.
type RuleBasedRanker struct{}

// Rank implements Ranker.
func (RuleBasedRanker) Rank(ctx context.Context, signals []domain.Signal, frame domain.IndicatorFrame, cfg profile.ConfigContext) ([]domain.Signal, error) {
	out := make([]domain.Signal, len(signals))
	for i, s := range signals {
		bonus := cfg.CategoryBonuses[s.Category]
		score := clampScore(strengthBaseScore(s.Strength) + bonus)
		rationale := fmt.Sprintf("%s (%s): base score for %s plus %.0f category bonus", s.Name, s.Category, s.Strength, bonus)
		out[i] = s.WithScore(score, rationale)
	}
	sortByScoreDescending(out)
	return out, nil
}
