package server

import (
	"net/http"
	"time"

	"github.com/aristath/chartwatch/internal/domain"
	"github.com/aristath/chartwatch/internal/modules/profile"
)

// analysisStoreTTL bounds how long a persisted analysis stays
// retrievable via the store — long enough to outlive a single trading
// session, short enough that a stale record isn't mistaken for fresh.
const analysisStoreTTL = 24 * time.Hour

// analyzeRequest mirrors spec §6's analyze_security/get_trade_plan
// parameter lists; Period and RiskProfile default when omitted.
type analyzeRequest struct {
	Symbol          string           `json:"symbol"`
	Period          domain.Period    `json:"period,omitempty"`
	RiskProfile     profile.Name     `json:"risk_profile,omitempty"`
	ConfigOverrides map[string]any   `json:"config_overrides,omitempty"`
	TimeframeHint   domain.Timeframe `json:"timeframe_hint,omitempty"`
}

func (req *analyzeRequest) applyDefaults() {
	if req.Period == "" {
		req.Period = domain.Period1d
	}
	if req.RiskProfile == "" {
		req.RiskProfile = profile.Neutral
	}
}

func (s *Server) handleAnalyzeSecurity(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, domain.NewError(domain.CodeInvalidSymbol, "malformed request body: "+err.Error()))
		return
	}
	req.applyDefaults()

	snap, err := s.analyzer.AnalyzeSecurity(r.Context(), req.Symbol, req.Period, req.RiskProfile, req.ConfigOverrides)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if s.store != nil {
		_ = s.store.SaveAnalysis(r.Context(), analysisStoreKey(req), snap, analysisStoreTTL)
	}

	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetTradePlan(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, domain.NewError(domain.CodeInvalidSymbol, "malformed request body: "+err.Error()))
		return
	}
	req.applyDefaults()

	assessment, err := s.analyzer.GetTradePlan(r.Context(), req.Symbol, req.Period, req.RiskProfile, req.ConfigOverrides, req.TimeframeHint)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, assessment)
}

func analysisStoreKey(req analyzeRequest) string {
	return req.Symbol + ":" + string(req.Period) + ":" + string(req.RiskProfile)
}
