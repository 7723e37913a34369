package logging

import (
	"go.uber.org/zap/zapcore"
)

// newSampledCore samples entries below Error; Error and above always pass.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}

	urgent := levelRangeCore{Core: core, keep: func(l zapcore.Level) bool { return l >= zapcore.ErrorLevel }}
	routine := levelRangeCore{Core: core, keep: func(l zapcore.Level) bool { return l < zapcore.ErrorLevel }}

	return zapcore.NewTee(
		urgent,
		zapcore.NewSamplerWithOptions(routine, cfg.Tick.Duration(), cfg.Initial, cfg.Thereafter),
	)
}

// levelRangeCore passes only the levels keep accepts.
type levelRangeCore struct {
	zapcore.Core
	keep func(zapcore.Level) bool
}

func (c levelRangeCore) Enabled(lvl zapcore.Level) bool {
	return c.keep(lvl) && c.Core.Enabled(lvl)
}

func (c levelRangeCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.keep(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c levelRangeCore) With(fields []zapcore.Field) zapcore.Core {
	return levelRangeCore{Core: c.Core.With(fields), keep: c.keep}
}
