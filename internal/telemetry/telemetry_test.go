package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/fyrsmithlabs/qtask/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"disabled skips checks", func(c *Config) { c.Endpoint = "" }, ""},
		{"enabled defaults", func(c *Config) { c.Enabled = true }, ""},
		{"missing endpoint", func(c *Config) { c.Enabled = true; c.Endpoint = "" }, "endpoint"},
		{"missing service", func(c *Config) { c.Enabled = true; c.ServiceName = "" }, "service name"},
		{"bad protocol", func(c *Config) { c.Enabled = true; c.Protocol = "udp" }, "protocol"},
		{"insecure remote", func(c *Config) { c.Enabled = true; c.Endpoint = "otel.example.com:4317" }, "insecure"},
		{"bad sample rate", func(c *Config) { c.Enabled = true; c.SampleRate = 2 }, "sample rate"},
		{"zero interval", func(c *Config) { c.Enabled = true; c.ExportInterval = 0 }, "export interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.ObservabilityConfig{
		EnableTelemetry: true,
		ServiceName:     "qtask-test",
		Endpoint:        "https://otel.example.com:4318",
		Protocol:        ProtocolHTTP,
	}, "1.2.3")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "qtask-test", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
	assert.Equal(t, ProtocolHTTP, cfg.Protocol)
	assert.False(t, cfg.Insecure)
	assert.NoError(t, cfg.Validate())

	local := FromAppConfig(config.ObservabilityConfig{Endpoint: "127.0.0.1:4317"}, "")
	assert.True(t, local.Insecure)
	assert.Equal(t, "dev", local.ServiceVersion)
}

func TestIsLocalEndpoint(t *testing.T) {
	for endpoint, want := range map[string]bool{
		"localhost:4317":        true,
		"127.0.0.1:4317":        true,
		"[::1]:4317":            true,
		"http://localhost:4318": true,
		"10.0.0.5:4317":         false,
		"collector:4317":        false,
	} {
		assert.Equal(t, want, isLocalEndpoint(endpoint), endpoint)
	}
}

func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)

	assert.False(t, tel.IsEnabled())
	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))
	assert.Nil(t, tel.LoggerProvider())
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.SampleRate = -1
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_WithExporters(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true
	cfg.MetricsEnabled = false
	exp := tracetest.NewInMemoryExporter()
	logs := &LogRecorder{}

	tel, err := New(context.Background(), cfg, WithTraceExporter(exp), WithLogExporter(logs))
	require.NoError(t, err)
	assert.True(t, tel.IsEnabled())
	assert.False(t, tel.Health().Degraded)

	_, span := tel.Tracer("qtask.test").Start(context.Background(), "task.add")
	span.End()
	require.NoError(t, tel.ForceFlush(context.Background()))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "task.add", spans[0].Name)

	var rec otellog.Record
	rec.SetBody(otellog.StringValue("task added"))
	tel.LoggerProvider().Logger("qtask.test").Emit(context.Background(), rec)
	require.NoError(t, tel.ForceFlush(context.Background()))
	assert.Equal(t, []string{"task added"}, logs.Bodies())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, tel.Shutdown(ctx))
	assert.False(t, tel.Health().Healthy)
}

func TestNilTelemetry(t *testing.T) {
	var tel *Telemetry
	assert.NotNil(t, tel.Tracer("x"))
	assert.NotNil(t, tel.Meter("x"))
	assert.NotNil(t, tel.MeterProvider())
	assert.False(t, tel.IsEnabled())
	assert.True(t, tel.Health().Degraded)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestTestTelemetry(t *testing.T) {
	tt := NewTestTelemetry()

	_, span := tt.Tracer("qtask.test").Start(context.Background(), "view.grid")
	span.End()
	tt.AssertSpanExists(t, "view.grid")

	counter, err := tt.Meter("qtask.test").Int64Counter("qtask.test.calls")
	require.NoError(t, err)
	counter.Add(context.Background(), 2, metric.WithAttributes(attribute.String("tool", "task_add")))
	counter.Add(context.Background(), 1, metric.WithAttributes(attribute.String("tool", "task_list")))

	assert.Equal(t, int64(3), tt.SumValue(t, "qtask.test.calls"))
	assert.Equal(t, int64(2), tt.SumValue(t, "qtask.test.calls", attribute.String("tool", "task_add")))
}
