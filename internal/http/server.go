// Package http serves task sessions over a JSON API.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/logging"
	"github.com/fyrsmithlabs/qtask/internal/session"
)

// Server provides HTTP endpoints for task sessions.
type Server struct {
	echo     *echo.Echo
	registry *session.Registry
	limiter  *RateLimiter
	logger   *zap.Logger
	log      *logging.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host    string
	Port    int
	Version string

	// RateLimit is mutating requests per second per session; 0 disables it.
	RateLimit float64
	RateBurst int

	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimiter shares a limiter, typically one whose Forget is hooked to
// session expiry.
func WithRateLimiter(l *RateLimiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// WithMeterProvider records request metrics through mp.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Server) {
		s.echo.Use(NewHTTPMetrics(mp, s.logger).MetricsMiddleware())
	}
}

// NewServer creates a new HTTP server.
func NewServer(registry *session.Registry, logger *zap.Logger, cfg *Config, opts ...Option) (*Server, error) {
	if registry == nil {
		return nil, fmt.Errorf("session registry cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 9191,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	s := &Server{
		echo:     e,
		registry: registry,
		logger:   logger,
		log:      logging.FromZap(logger),
		config:   cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.config.Gatherer != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.echo.Group("/api/v1")
	v1.POST("/sessions", s.handleCreateSession)

	sess := v1.Group("", s.requireSession)
	limited := s.limiter.Middleware()

	sess.GET("/tasks", s.handleListTasks)
	sess.POST("/tasks", s.handleAddTask, limited)
	sess.POST("/tasks/randomize", s.handleRandomize, limited)
	sess.POST("/tasks/:index/complete", s.handleComplete, limited)

	sess.GET("/views/grid", s.handleGrid)
	sess.GET("/views/scatter", s.handleScatter)
	sess.GET("/views/analytics", s.handleAnalytics)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
