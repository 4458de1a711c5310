package portfolio

import "github.com/aristath/chartwatch/internal/modules/universe"

// SectorReport aggregates every assessed position in one sector.
type SectorReport struct {
	Sector             universe.Sector
	TotalValue         float64
	PercentOfPortfolio float64
	PositionCount      int
	AggregateMaxLoss   float64
	LowCount           int
	ModerateCount      int
	HighCount          int
}

// Report is the full portfolio-risk outcome (spec §4.7 PortfolioRiskReport).
type Report struct {
	Positions      []PositionRisk
	Sectors        []SectorReport
	TotalValue     float64
	TotalMaxLoss   float64
	OverallRiskPct float64
}

// BuildReport aggregates already-assessed positions by sector and computes
// the overall-risk ratio. Sector order follows universe.AllSectors with
// zero-position sectors included (so an empty sector still shows a zero
// row); any symbol whose sector could not be resolved contributes to a
// trailing "Unknown" bucket that is omitted entirely when empty.
func BuildReport(positions []PositionRisk) Report {
	bySector := make(map[universe.Sector]*SectorReport, len(universe.AllSectors)+1)
	for _, sec := range universe.AllSectors {
		bySector[sec] = &SectorReport{Sector: sec}
	}

	var totalValue, totalMaxLoss float64
	for _, p := range positions {
		sr, ok := bySector[p.Sector]
		if !ok {
			sr = &SectorReport{Sector: p.Sector}
			bySector[p.Sector] = sr
		}
		sr.TotalValue += p.Value
		sr.PositionCount++
		sr.AggregateMaxLoss += p.MaxLossDollar
		switch p.RiskLevel {
		case RiskLevelLow:
			sr.LowCount++
		case RiskLevelModerate:
			sr.ModerateCount++
		case RiskLevelHigh:
			sr.HighCount++
		}
		totalValue += p.Value
		totalMaxLoss += p.MaxLossDollar
	}

	sectors := make([]SectorReport, 0, len(bySector))
	for _, sec := range universe.AllSectors {
		sr := *bySector[sec]
		if totalValue > 0 {
			sr.PercentOfPortfolio = sr.TotalValue / totalValue * 100
		}
		sectors = append(sectors, sr)
	}
	if unknown, ok := bySector[UnknownSector]; ok && unknown.PositionCount > 0 {
		sr := *unknown
		if totalValue > 0 {
			sr.PercentOfPortfolio = sr.TotalValue / totalValue * 100
		}
		sectors = append(sectors, sr)
	}

	var overallRiskPct float64
	if totalValue > 0 {
		overallRiskPct = totalMaxLoss / totalValue * 100
	}

	return Report{
		Positions: positions, Sectors: sectors,
		TotalValue: totalValue, TotalMaxLoss: totalMaxLoss,
		OverallRiskPct: overallRiskPct,
	}
}
