package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fyrsmithlabs/qtask/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{" WARN ", zapcore.WarnLevel, false},
		{"", zapcore.InfoLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := LevelFromString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, NewDefaultConfig().Validate())
	})

	t.Run("bad format", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Format = "xml"
		assert.ErrorContains(t, cfg.Validate(), "format")
	})

	t.Run("no outputs", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Output.Stdout = false
		assert.ErrorContains(t, cfg.Validate(), "at least one output")
	})

	t.Run("zero sampling tick", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Sampling.Tick = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty field value", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Fields["env"] = ""
		assert.ErrorContains(t, cfg.Validate(), "env")
	})
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(config.LoggingConfig{Level: "debug", Format: "console", File: "/tmp/qtask.log"})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "/tmp/qtask.log", cfg.Output.File)
	assert.False(t, cfg.Output.Stdout)

	_, err = FromAppConfig(config.LoggingConfig{Level: "shouty"})
	assert.Error(t, err)
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qtask.log")
	cfg := NewDefaultConfig()
	cfg.Output.Stdout = false
	cfg.Output.File = path
	cfg.Sampling.Enabled = false

	logger, err := NewLogger(cfg, nil)
	require.NoError(t, err)

	logger.Info(context.Background(), "task added", zap.Int("priority", 4))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"task added"`)
	assert.Contains(t, string(data), `"priority":4`)
	assert.Contains(t, string(data), `"service":"qtask"`)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "yaml"
	_, err := NewLogger(cfg, nil)
	assert.Error(t, err)
}

func TestLogger_ContextFields(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithSessionID(context.Background(), "sess-1")
	ctx = WithRequestID(ctx, "req-9")
	tl.Info(ctx, "randomized", zap.Int("count", 3))

	tl.AssertLogged(t, zapcore.InfoLevel, "randomized")
	tl.AssertField(t, "randomized", "session.id", "sess-1")
	tl.AssertField(t, "randomized", "request.id", "req-9")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "randomized")
}

func TestContextFields_Trace(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	fields := ContextFields(ctx)
	keys := make(map[string]bool, len(fields))
	for _, f := range fields {
		keys[f.Key] = true
	}
	assert.True(t, keys["trace_id"])
	assert.True(t, keys["span_id"])
	assert.True(t, keys["trace_sampled"])
}

func TestContextFields_Empty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))
	assert.Equal(t, context.Background(), WithSessionID(context.Background(), ""))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	FromContext(ctx).Warn(ctx, "stored logger")
	tl.AssertLogged(t, zapcore.WarnLevel, "stored logger")
}

func TestLogger_Trace(t *testing.T) {
	tl := NewTestLogger()
	tl.Trace(context.Background(), "fine detail")
	tl.AssertLogged(t, TraceLevel, "fine detail")

	tl.Reset()
	assert.Empty(t, tl.All())
}
