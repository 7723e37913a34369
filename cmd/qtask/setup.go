package main

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/config"
	"github.com/fyrsmithlabs/qtask/internal/logging"
	"github.com/fyrsmithlabs/qtask/internal/telemetry"
)

// app bundles what every command needs after startup.
type app struct {
	cfg        *config.Config
	configPath string
	logger     *logging.Logger
	tel        *telemetry.Telemetry
}

// setup loads config and starts telemetry and logging.
//
// Commands that own the terminal or stdout pass fileOnly; their logs go to
// logging.file, or to <name>.log in the config directory when it is unset.
func setup(ctx context.Context, opts *rootOptions, name string, fileOnly bool) (*app, error) {
	cfg, err := config.LoadWithFile(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if fileOnly && cfg.Logging.File == "" {
		path, err := defaultLogFile(name)
		if err != nil {
			return nil, err
		}
		cfg.Logging.File = path
	}

	tel, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg.Observability, version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logCfg, err := logging.FromAppConfig(cfg.Logging)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}
	logCfg.Fields["command"] = name
	logCfg.Output.OTEL = tel.IsEnabled() && tel.LoggerProvider() != nil

	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.Strings("failures", h.Failures))
	}

	return &app{cfg: cfg, configPath: opts.configPath, logger: logger, tel: tel}, nil
}

// close flushes telemetry, then the logger.
func (a *app) close(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.tel.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
	}
	_ = a.logger.Sync()
	_ = a.logger.Close()
}

func defaultLogFile(name string) (string, error) {
	if err := config.EnsureConfigDir(); err != nil {
		return "", err
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), name+".log"), nil
}
