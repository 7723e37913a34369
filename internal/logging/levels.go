package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// TraceLevel sits below Debug (-1) for step-by-step diagnostics.
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses a level name case-insensitively. "trace" maps to
// TraceLevel and an empty string to Info.
func LevelFromString(level string) (zapcore.Level, error) {
	switch name := strings.ToLower(strings.TrimSpace(level)); name {
	case "":
		return zapcore.InfoLevel, nil
	case "trace":
		return TraceLevel, nil
	default:
		return zapcore.ParseLevel(name)
	}
}
