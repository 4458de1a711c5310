// Package portfolio aggregates per-symbol risk assessments into a
// sector-bucketed portfolio risk report (spec §4.7 "Portfolio risk").
package portfolio

import "github.com/aristath/chartwatch/internal/modules/universe"

// Position is one holding in a snapshot portfolio-risk assessment.
// EntryPrice is taken as the current close at assessment time (spec §4.7:
// "Entry price is taken as the current close for snapshot assessments"),
// not the price the position was actually opened at.
type Position struct {
	Symbol     string
	Shares     float64
	EntryPrice float64
}

// RiskLevel is the stop-distance bucket a position falls into, driven by
// its volatility regime.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelModerate RiskLevel = "moderate"
	RiskLevelHigh     RiskLevel = "high"
)

// UnknownSector is used for a symbol with no entry in universe's static
// sector table, so a single unrecognized ticker never fails the whole
// report.
const UnknownSector universe.Sector = "Unknown"
