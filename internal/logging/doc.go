// Package logging provides structured logging for qtask on top of Zap.
//
// Logger adds context-aware methods that attach trace, session and request
// correlation fields:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithSessionID(ctx, sessionID)
//	logger.Info(ctx, "task added", zap.Int("priority", 4))
//
// Output goes to stdout or to a file. The terminal dashboard owns the screen,
// so it always logs to a file. An OpenTelemetry log provider can be added as a
// second sink through the otelzap bridge.
//
// Sampling is level-aware: errors are never sampled.
//
// Tests use NewTestLogger, which records entries in memory:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message")
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
package logging
