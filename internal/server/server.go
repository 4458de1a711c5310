// Package server exposes the per-symbol core and fan-out operations over
// HTTP: analyze_security, get_trade_plan, compare_securities,
// screen_securities, scan_trades, portfolio_risk, and morning_brief (spec
// §6), plus a health endpoint and a websocket progress stream for
// long-running fan-out operations.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/chartwatch/internal/config"
	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/persistence"
)

// Config bundles everything the server needs to construct its routes. It
// is intentionally much smaller than a full DI container: chartwatch's
// core has only one real collaborator (the Analyzer) and one optional one
// (the Store), not the dozen independently-wired modules of a full
// portfolio-management backend.
type Config struct {
	Log         zerolog.Logger
	AppConfig   *config.Config
	Analyzer    *analysis.Analyzer
	Store       persistence.Store // optional; nil disables result persistence
	Concurrency int               // fan-out worker-pool size; 0 uses fanout.DefaultConcurrency
}

// Server wraps the chi router and the collaborators every handler needs.
type Server struct {
	router      *chi.Mux
	httpServer  *http.Server
	log         zerolog.Logger
	cfg         *config.Config
	analyzer    *analysis.Analyzer
	store       persistence.Store
	concurrency int
	progress    *progressHub
}

// New builds a Server with its middleware and routes configured, ready
// for Start.
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		cfg:         cfg.AppConfig,
		analyzer:    cfg.Analyzer,
		store:       cfg.Store,
		concurrency: cfg.Concurrency,
		progress:    newProgressHub(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.AppConfig.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // scan_trades can take longer than a typical request
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(90 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if !s.cfg.DevMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze_security", s.handleAnalyzeSecurity)
		r.Post("/get_trade_plan", s.handleGetTradePlan)
		r.Post("/compare_securities", s.handleCompareSecurities)
		r.Post("/screen_securities", s.handleScreenSecurities)
		r.Post("/scan_trades", s.handleScanTrades)
		r.Post("/portfolio_risk", s.handlePortfolioRisk)
		r.Post("/morning_brief", s.handleMorningBrief)
		r.Get("/progress/stream", s.handleProgressStream)
	})
}

// loggingMiddleware logs one line per request at completion, mirroring
// the teacher's request-scoped structured logging.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request handled")
	})
}

// Start begins serving and blocks until the server stops or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Int("port", s.cfg.Port).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
