// Package server provides the HTTP server and routing for the analytics service.
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

	"github.com/axiome/analytics/internal/config"
	"github.com/axiome/analytics/internal/di"
	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/analytics"
	analyticshandlers "github.com/axiome/analytics/internal/modules/analytics/handlers"
	backtesthandlers "github.com/axiome/analytics/internal/modules/backtest/handlers"
	marketdatahandlers "github.com/axiome/analytics/internal/modules/marketdata/handlers"
	riskhandlers "github.com/axiome/analytics/internal/modules/risk/handlers"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Port      int
	DevMode   bool
	DataDir   string
	Container *di.Container // DI container with all services
	Analytics config.AnalyticsConfig
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	port           int
	container      *di.Container
	analytics      config.AnalyticsConfig
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		port:           cfg.Port,
		container:      cfg.Container,
		analytics:      cfg.Analytics,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.DataDir, cfg.Container.MarketDB),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // back-tests over long windows
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router exposes the HTTP handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)

		analyticshandlers.NewHandler(s.container.AnalyticsService, s.log).RegisterRoutes(r)
		backtesthandlers.NewHandler(s.container.BacktestService, s.log).RegisterRoutes(r)
		marketdatahandlers.NewHandler(s.container.HistoryStore, s.log).RegisterRoutes(r)
		riskhandlers.NewHandler(s.container.HistoryStore, domain.SystemClock{}, riskhandlers.Config{
			DefaultBenchmark:     s.analytics.Benchmark,
			LookbackDays:         analytics.DefaultLookbackDays,
			MaxConcurrentFetches: s.analytics.MaxConcurrentFetches,
		}, s.log).RegisterRoutes(r)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
