// Package telemetry wires OpenTelemetry tracing and metrics for qtask.
//
// Providers export over OTLP (grpc or http/protobuf) to a collector. When
// telemetry is disabled the global no-op providers are used, so callers can
// always ask for a Tracer or Meter.
//
//	tel, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg.Observability, version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	meter := tel.Meter("qtask.http")
//
// Initialization failures degrade the instance instead of failing startup.
// Tests use NewTestTelemetry, which records spans and metrics in memory.
package telemetry
