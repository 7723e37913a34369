package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/config"
	qhttp "github.com/fyrsmithlabs/qtask/internal/http"
	"github.com/fyrsmithlabs/qtask/internal/session"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API over HTTP",
		Long: `Serve the task API over HTTP.

Each client creates a session with POST /api/v1/sessions and passes its
ID in the X-Session-ID header. Idle sessions expire after session.ttl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := setup(ctx, opts, "serve", false)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			return runServe(ctx, a)
		},
	}
}

// runServe blocks until ctx is cancelled or the listener fails, then shuts
// the server down within server.shutdown_timeout.
func runServe(ctx context.Context, a *app) error {
	cfg := a.cfg
	logger := a.logger.Underlying()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	limiter := qhttp.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	registry := session.NewRegistry(sessionConfig(cfg), session.NewMetrics(reg), logger,
		session.WithExpireHook(limiter.Forget),
	)

	srvCfg := &qhttp.Config{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		Version:   version,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	}
	if cfg.Metrics.Enabled {
		srvCfg.Gatherer = reg
	}

	srv, err := qhttp.NewServer(registry, logger, srvCfg,
		qhttp.WithRateLimiter(limiter),
		qhttp.WithMeterProvider(a.tel.MeterProvider()),
	)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	go registry.Run(bgCtx)
	go watchRateLimit(bgCtx, a, limiter)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	a.logger.Info(ctx, "qtask serving",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Duration("session_ttl", cfg.Session.TTL))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info(ctx, "server shutdown complete")
	return nil
}

// watchRateLimit applies server.rate_limit and server.rate_burst from config
// file edits without a restart.
func watchRateLimit(ctx context.Context, a *app, limiter *qhttp.RateLimiter) {
	err := config.Watch(ctx, a.configPath,
		func(c *config.Config) {
			limiter.SetLimit(c.Server.RateLimit, c.Server.RateBurst)
			a.logger.Info(ctx, "rate limit reloaded",
				zap.Float64("rate_limit", c.Server.RateLimit),
				zap.Int("rate_burst", c.Server.RateBurst))
		},
		func(err error) {
			a.logger.Warn(ctx, "config reload failed", zap.Error(err))
		},
	)
	if err != nil {
		a.logger.Warn(ctx, "config watch disabled", zap.Error(err))
	}
}

func sessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		TTL:           cfg.Session.TTL,
		MaxSessions:   cfg.Session.MaxSessions,
		SweepInterval: cfg.Session.SweepInterval,
	}
}
