// Package echo provides the notescan HTTP server built on Echo.
package echo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fwojciec/notescan"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// DefaultAddr is the address the server listens on by default.
const DefaultAddr = ":5001"

// MaxBodySize limits request bodies; screenshots arrive base64 encoded.
const MaxBodySize = "20M"

// Config holds the collaborators and options of a Server. Optional
// services left nil disable the routes that need them.
type Config struct {
	Analyzer notescan.Analyzer

	// Analyses stores successful analyses and serves /analyses.
	Analyses notescan.AnalysisService

	// FeedChecks serves /feeds/status.
	FeedChecks notescan.FeedCheckService

	// Metrics is mounted at /metrics.
	Metrics http.Handler

	Logger *slog.Logger

	// Mock marks the analyzer as a demo analyzer in health responses.
	Mock        bool
	MockMessage string

	Version      string
	AllowOrigins []string
	StaticDir    string
}

// Server serves the notescan HTTP API.
type Server struct {
	e      *echo.Echo
	cfg    Config
	logger *slog.Logger
}

// NewServer creates a Server and registers its routes.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}

	s := &Server{
		e:      echo.New(),
		cfg:    cfg,
		logger: cfg.Logger,
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.HTTPErrorHandler = s.handleError

	s.e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.InfoContext(c.Request().Context(), "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))
	s.e.Use(middleware.Recover())
	s.e.Use(middleware.BodyLimit(MaxBodySize))
	s.e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	s.e.GET("/", s.handleIndex)
	s.e.GET("/health", s.handleHealth)
	s.e.OPTIONS("/health", s.handleHealthPreflight)
	s.e.POST("/analyze", s.handleAnalyze)
	s.e.GET("/analyses", s.handleListAnalyses)
	s.e.GET("/analyses/:id", s.handleGetAnalysis)
	s.e.GET("/feeds/status", s.handleFeedStatus)
	if cfg.Metrics != nil {
		s.e.GET("/metrics", echo.WrapHandler(cfg.Metrics))
	}
	if cfg.StaticDir != "" {
		g := s.e.Group("/static", staticHeaders)
		g.Static("/", cfg.StaticDir)
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// Start listens on addr and blocks until the server stops. It returns nil
// after a graceful shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("server started", "addr", addr, "mock", s.cfg.Mock)
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// staticHeaders allows any origin to load static files and disables
// caching.
func staticHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
		h.Set(echo.HeaderAccessControlAllowHeaders, echo.HeaderContentType)
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		return next(c)
	}
}
