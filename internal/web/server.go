// Package web serves the analyzer over a JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/analyzer"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/logging"
	"github.com/ASHRAFGHWIL/Medication-Analyzer-Pro/internal/metrics"
)

// Server is the HTTP front end over a shared orchestrator.
type Server struct {
	server  *http.Server
	router  chi.Router
	orch    *analyzer.Orchestrator
	limiter *RateLimiter
	started time.Time

	// background analyses
	runCtx    context.Context
	runCancel context.CancelFunc
	runs      sync.WaitGroup
}

// NewServer creates a server listening on addr.
func NewServer(addr string, orch *analyzer.Orchestrator) *Server {
	router := chi.NewRouter()
	runCtx, runCancel := context.WithCancel(context.Background())

	s := &Server{
		server: &http.Server{
			Handler:     router,
			Addr:        addr,
			ReadTimeout: 15 * time.Second,
			// analyze?wait=true blocks for the whole run
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		router:    router,
		orch:      orch,
		limiter:   NewRateLimiter(2, 300),
		started:   time.Now(),
		runCtx:    runCtx,
		runCancel: runCancel,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(LoggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(s.limiter.Middleware)
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/suggestions", s.handleSuggestions)
		r.Post("/medications", s.handleAddMedication)
		r.Delete("/medications/{name}", s.handleRemoveMedication)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/start-over", s.handleStartOver)
		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
		r.Post("/history/{id}/load", s.handleLoadHistory)
		r.Put("/preferences", s.handlePreferences)
		r.Get("/translations", s.handleTranslations)
		r.Get("/help", s.handleHelp)
	})
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start serves until Shutdown. The returned error is never http.ErrServerClosed.
func (s *Server) Start() error {
	s.limiter.StartCleanup(s.runCtx, 30*time.Minute)
	logging.Info("Starting web server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, cancels background analyses and waits for them.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down web server...")
	err := s.server.Shutdown(ctx)
	if err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if closeErr := s.server.Close(); closeErr != nil {
			logging.Error("Server close error", "error", closeErr)
		}
	}

	s.runCancel()
	done := make(chan struct{})
	go func() {
		s.runs.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logging.Warn("Background analysis still running at shutdown")
	}

	logging.Info("Server shutdown complete")
	return err
}
