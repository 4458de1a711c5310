package portfolio

import (
	"testing"

	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg(t *testing.T) profile.ConfigContext {
	t.Helper()
	cfg, err := profile.Resolve(profile.Neutral, nil)
	require.NoError(t, err)
	return cfg.Flatten()
}

func TestAssessPosition_StopIsWithinItsRiskBucketRange(t *testing.T) {
	cfg := testCfg(t)

	pos := Position{Symbol: "AAPL", Shares: 10, EntryPrice: 200}
	pr := AssessPosition(pos, 200, 2.0, cfg) // ATR 2 on price 200 -> ATR% = 1.0, LOW regime

	assert.Equal(t, "Information Technology", string(pr.Sector))
	assert.Equal(t, RiskLevelLow, pr.RiskLevel)
	assert.GreaterOrEqual(t, pr.StopPct, 2.0)
	assert.LessOrEqual(t, pr.StopPct, 3.0)
	assert.InDelta(t, pos.Shares*(200-pr.Stop), pr.MaxLossDollar, 1e-9)
}

func TestAssessPosition_UnknownSymbolFallsBackToUnknownSector(t *testing.T) {
	cfg := testCfg(t)
	pr := AssessPosition(Position{Symbol: "ZZZZ_NOT_LISTED", Shares: 5, EntryPrice: 50}, 50, 1.0, cfg)
	assert.Equal(t, UnknownSector, pr.Sector)
}

func TestBuildReport_ThreeSectorsPresentAndPercentagesSumTo100(t *testing.T) {
	cfg := testCfg(t)

	positions := []PositionRisk{
		AssessPosition(Position{Symbol: "AAPL", Shares: 10, EntryPrice: 200}, 200, 2.0, cfg),
		AssessPosition(Position{Symbol: "XOM", Shares: 5, EntryPrice: 100}, 100, 1.5, cfg),
		AssessPosition(Position{Symbol: "JNJ", Shares: 8, EntryPrice: 150}, 150, 2.5, cfg),
	}

	report := BuildReport(positions)

	require.Len(t, report.Positions, 3)
	require.Len(t, report.Sectors, 11)

	var techPct, energyPct, healthPct, sumPct float64
	for _, sr := range report.Sectors {
		sumPct += sr.PercentOfPortfolio
		switch string(sr.Sector) {
		case "Information Technology":
			techPct = sr.PercentOfPortfolio
			assert.Equal(t, 1, sr.PositionCount)
		case "Energy":
			energyPct = sr.PercentOfPortfolio
			assert.Equal(t, 1, sr.PositionCount)
		case "Healthcare":
			healthPct = sr.PercentOfPortfolio
			assert.Equal(t, 1, sr.PositionCount)
		default:
			assert.Equal(t, 0, sr.PositionCount)
		}
	}
	assert.Greater(t, techPct, 0.0)
	assert.Greater(t, energyPct, 0.0)
	assert.Greater(t, healthPct, 0.0)
	assert.InDelta(t, 100.0, sumPct, 0.01)
	assert.InDelta(t, report.TotalMaxLoss/report.TotalValue*100, report.OverallRiskPct, 1e-9)
}

func TestBuildReport_EmptyPositionsIsZeroValued(t *testing.T) {
	report := BuildReport(nil)
	require.Len(t, report.Sectors, 11)
	for _, sr := range report.Sectors {
		assert.Equal(t, 0, sr.PositionCount)
		assert.Equal(t, 0.0, sr.PercentOfPortfolio)
	}
	assert.Equal(t, 0.0, report.OverallRiskPct)
}
