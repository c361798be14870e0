// Package server exposes the generated dataset over a read-only HTTP API.
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

	"github.com/quantlab/factorpanel/internal/pipeline"
)

// SummaryProvider returns the most recent run summary, or nil before the
// first run completes.
type SummaryProvider func() *pipeline.RunSummary

// Config holds server configuration.
type Config struct {
	Port    int
	Repos   *pipeline.Repositories
	LastRun SummaryProvider
	Log     zerolog.Logger
}

// Server is the results HTTP server.
type Server struct {
	router  *chi.Mux
	server  *http.Server
	repos   *pipeline.Repositories
	lastRun SummaryProvider
	log     zerolog.Logger
}

// New creates the results server.
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		repos:   cfg.Repos,
		lastRun: cfg.LastRun,
		log:     cfg.Log.With().Str("component", "server").Logger(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/run", s.handleLastRun)
		r.Get("/prices/{symbol}", s.handlePrices)
		r.Get("/sentiment/daily", s.handleDailySentiment)
		r.Get("/macro", s.handleMacro)
		r.Get("/fundamentals/{symbol}", s.handleFundamentals)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting results server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down results server")
	return s.server.Shutdown(ctx)
}

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
			Msg("HTTP request")
	})
}
