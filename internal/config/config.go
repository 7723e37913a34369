// Package config provides configuration loading for qtask.
//
// Configuration is resolved from hardcoded defaults, then an optional YAML or
// TOML file, then QTASK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete qtask configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Session       SessionConfig       `koanf:"session"`
	Dashboard     DashboardConfig     `koanf:"dashboard"`
	Metrics       MetricsConfig       `koanf:"metrics"`
	Observability ObservabilityConfig `koanf:"observability"`
	Logging       LoggingConfig       `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"http_host"`
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimit       float64       `koanf:"rate_limit"` // mutating requests per second per session, 0 disables
	RateBurst       int           `koanf:"rate_burst"`
}

// SessionConfig controls how long HTTP sessions live.
type SessionConfig struct {
	TTL           time.Duration `koanf:"ttl"`
	MaxSessions   int           `koanf:"max_sessions"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// DashboardConfig holds terminal dashboard settings.
type DashboardConfig struct {
	DefaultPriority int           `koanf:"default_priority"`
	StatusDuration  time.Duration `koanf:"status_duration"`
	ScatterWidth    int           `koanf:"scatter_width"`
	ScatterHeight   int           `koanf:"scatter_height"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// ObservabilityConfig holds OpenTelemetry configuration.
type ObservabilityConfig struct {
	EnableTelemetry bool   `koanf:"enable_telemetry"`
	ServiceName     string `koanf:"service_name"`
	Endpoint        string `koanf:"endpoint"`
	Protocol        string `koanf:"protocol"`
}

// LoggingConfig holds the subset of logging settings exposed in the config file.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"` // empty logs to stdout; the dashboard always needs a file
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	applyDefaults(cfg)
	return cfg
}

// Validate validates the configuration.
//
// Returns an error if:
//   - Server port is not between 1 and 65535
//   - Shutdown timeout is not positive
//   - Rate limit is negative, or positive with a burst below 1
//   - Default priority is outside 1-5
//   - Service name is empty (when telemetry is enabled)
//   - Logging format is neither json nor console
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %v (must be >= 0)", c.Server.RateLimit)
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("invalid rate burst: %d (must be >= 1 when rate limiting)", c.Server.RateBurst)
	}

	if c.Session.MaxSessions < 0 {
		return fmt.Errorf("invalid max sessions: %d", c.Session.MaxSessions)
	}

	if c.Dashboard.DefaultPriority < 1 || c.Dashboard.DefaultPriority > 5 {
		return fmt.Errorf("invalid default priority: %d (must be 1-5)", c.Dashboard.DefaultPriority)
	}

	if c.Observability.EnableTelemetry && c.Observability.ServiceName == "" {
		return errors.New("service name required when telemetry is enabled")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	return nil
}
