// Package ranking implements spec §4.4: assigning score and rationale to
// each detected signal, behind an interface with two interchangeable
// strategies (rule-based and remote-LLM), composed through a fallback
// wrapper so the overall analysis never fails because ranking did.
package ranking

import (
	"context"
	"sort"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// Ranker scores and explains a set of signals, returning a new slice
// sorted by score descending. It never mutates its input.
type Ranker interface {
	Rank(ctx context.Context, signals []domain.Signal, frame domain.IndicatorFrame, cfg profile.ConfigContext) ([]domain.Signal, error)
}

// strengthBaseScore implements the rule-based scoring table of spec §4.4.
func strengthBaseScore(s domain.Strength) float64 {
	switch s {
	case domain.StrengthStrongBullish, domain.StrengthStrongBearish:
		return 75
	case domain.StrengthBullish, domain.StrengthBearish:
		return 55
	case domain.StrengthNotable, domain.StrengthSignificant:
		return 40
	default:
		return 25
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func sortByScoreDescending(signals []domain.Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		si, sj := 0.0, 0.0
		if signals[i].Score != nil {
			si = *signals[i].Score
		}
		if signals[j].Score != nil {
			sj = *signals[j].Score
		}
		return si > sj
	})
}
