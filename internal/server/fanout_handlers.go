package server

import (
	"net/http"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/fanout"
	"github.com/aristath/chartwatch/internal/modules/portfolio"
	"github.com/aristath/chartwatch/internal/modules/profile"
	"github.com/aristath/chartwatch/internal/modules/universe"
	"github.com/aristath/chartwatch/internal/utils"
	"github.com/google/uuid"
)

// scanStoreTTL bounds how long a persisted scan/brief stays retrievable.
const scanStoreTTL = 24 * time.Hour

type compareRequest struct {
	Symbols         []string       `json:"symbols"`
	Metric          fanout.Metric  `json:"metric,omitempty"`
	Period          domain.Period  `json:"period,omitempty"`
	RiskProfile     profile.Name   `json:"risk_profile,omitempty"`
	ConfigOverrides map[string]any `json:"config_overrides,omitempty"`
}

func (s *Server) handleCompareSecurities(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, domain.NewError(domain.CodeInvalidSymbol, "malformed request body: "+err.Error()))
		return
	}
	if req.Period == "" {
		req.Period = domain.Period1d
	}
	if req.RiskProfile == "" {
		req.RiskProfile = profile.Neutral
	}

	result := fanout.CompareSecurities(r.Context(), s.analyzer, req.Symbols, req.Metric, req.Period, req.RiskProfile, req.ConfigOverrides, s.concurrency)
	s.writeJSON(w, http.StatusOK, result)
}

type screenRequest struct {
	Symbols         []string        `json:"symbols"`
	Universe        universe.Name   `json:"universe,omitempty"`
	Criteria        fanout.Criteria `json:"criteria"`
	Period          domain.Period   `json:"period,omitempty"`
	RiskProfile     profile.Name    `json:"risk_profile,omitempty"`
	ConfigOverrides map[string]any  `json:"config_overrides,omitempty"`
}

func (s *Server) handleScreenSecurities(w http.ResponseWriter, r *http.Request) {
	var req screenRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, domain.NewError(domain.CodeInvalidSymbol, "malformed request body: "+err.Error()))
		return
	}
	if req.Period == "" {
		req.Period = domain.Period1d
	}
	if req.RiskProfile == "" {
		req.RiskProfile = profile.Neutral
	}

	symbols := req.Symbols
	if len(symbols) == 0 && req.Universe != "" {
		resolved, err := universe.Resolve(req.Universe)
		if err != nil {
			s.writeError(w, err)
			return
		}
		symbols = resolved
	}

	result := fanout.ScreenSecurities(r.Context(), s.analyzer, symbols, req.Criteria, req.Period, req.RiskProfile, req.ConfigOverrides, s.concurrency)
	s.writeJSON(w, http.StatusOK, result)
}

type scanRequest struct {
	Universe        universe.Name  `json:"universe"`
	MaxResults      int            `json:"max_results,omitempty"`
	Period          domain.Period  `json:"period,omitempty"`
	RiskProfile     profile.Name   `json:"risk_profile,omitempty"`
	ConfigOverrides map[string]any `json:"config_overrides,omitempty"`
}

func (s *Server) handleScanTrades(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, domain.NewError(domain.CodeInvalidSymbol, "malformed request body: "+err.Error()))
		return
	}
	if req.Period == "" {
		req.Period = domain.Period1d
	}
	if req.RiskProfile == "" {
		req.RiskProfile = profile.Neutral
	}

	defer utils.OperationTimer("scan_trades:"+string(req.Universe), s.log)()

	runID := uuid.New().String()
	s.progress.broadcast(progressEvent{RunID: runID, Operation: "scan_trades", Stage: "started"})

	result, err := fanout.ScanUniverse(r.Context(), s.analyzer, req.Universe, req.MaxResults, req.Period, req.RiskProfile, req.ConfigOverrides, s.concurrency)
	if err != nil {
		s.progress.broadcast(progressEvent{RunID: runID, Operation: "scan_trades", Stage: "failed"})
		s.writeError(w, err)
		return
	}

	if s.store != nil {
		_ = s.store.SaveScan(r.Context(), runID, result, scanStoreTTL)
	}

	s.progress.broadcast(progressEvent{RunID: runID, Operation: "scan_trades", Stage: "completed"})
	s.writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "result": result})
}

type portfolioRiskRequest struct {
	Positions   []portfolio.Position `json:"positions"`
	Period      domain.Period        `json:"period,omitempty"`
	RiskProfile profile.Name         `json:"risk_profile,omitempty"`
}

func (s *Server) handlePortfolioRisk(w http.ResponseWriter, r *http.Request) {
	var req portfolioRiskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, domain.NewError(domain.CodeInvalidSymbol, "malformed request body: "+err.Error()))
		return
	}
	if req.Period == "" {
		req.Period = domain.Period1d
	}
	if req.RiskProfile == "" {
		req.RiskProfile = profile.Neutral
	}

	result := fanout.AssessPortfolio(r.Context(), s.analyzer, req.Positions, req.Period, req.RiskProfile, s.concurrency)
	s.writeJSON(w, http.StatusOK, result)
}

// morningBriefRequest accepts market_region for wire compatibility with
// the morning_brief(watchlist?, market_region?, period?) signature; no
// region-specific filtering is defined, so it is currently unused.
type morningBriefRequest struct {
	Watchlist    []string      `json:"watchlist"`
	MarketRegion string        `json:"market_region,omitempty"`
	Period       domain.Period `json:"period,omitempty"`
	RiskProfile  profile.Name  `json:"risk_profile,omitempty"`
}

func (s *Server) handleMorningBrief(w http.ResponseWriter, r *http.Request) {
	var req morningBriefRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, domain.NewError(domain.CodeInvalidSymbol, "malformed request body: "+err.Error()))
		return
	}
	if req.Period == "" {
		req.Period = domain.Period1d
	}
	if req.RiskProfile == "" {
		req.RiskProfile = profile.Neutral
	}

	defer utils.OperationTimer("morning_brief", s.log)()

	runID := uuid.New().String()
	s.progress.broadcast(progressEvent{RunID: runID, Operation: "morning_brief", Stage: "started"})

	brief := fanout.BuildMorningBrief(r.Context(), s.analyzer, req.Watchlist, req.Period, req.RiskProfile, s.concurrency)

	s.progress.broadcast(progressEvent{RunID: runID, Operation: "morning_brief", Stage: "completed"})
	s.writeJSON(w, http.StatusOK, map[string]any{"run_id": runID, "brief": brief})
}
