package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "shutdown timeout"},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }, "invalid rate limit"},
		{"rate without burst", func(c *Config) { c.Server.RateLimit = 2; c.Server.RateBurst = 0 }, "invalid rate burst"},
		{"negative max sessions", func(c *Config) { c.Session.MaxSessions = -1 }, "invalid max sessions"},
		{"priority out of range", func(c *Config) { c.Dashboard.DefaultPriority = 0 }, "invalid default priority"},
		{"telemetry without name", func(c *Config) {
			c.Observability.EnableTelemetry = true
			c.Observability.ServiceName = ""
		}, "service name required"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	assert.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-5s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))

	text, err := d.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))
}

func TestTOMLParser(t *testing.T) {
	p := TOMLParser()
	m, err := p.Unmarshal([]byte("[server]\nhttp_port = 1234\n"))
	assert.NoError(t, err)
	server, ok := m["server"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.EqualValues(t, 1234, server["http_port"])
	}

	_, err = p.Unmarshal([]byte("not = = toml"))
	assert.Error(t, err)

	out, err := p.Marshal(map[string]interface{}{"a": 1})
	assert.NoError(t, err)
	assert.Contains(t, string(out), "a = 1")
}
