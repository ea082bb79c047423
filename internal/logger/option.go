package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// fixedLevelCore wraps a zapcore.Core and filters entries by its own level
// instead of the level of the wrapped core.
type fixedLevelCore struct {
	zapcore.Core

	// level is the minimum level written through this core.
	level zapcore.Level
}

// Enabled reports whether entries at l pass this core's level.
func (c *fixedLevelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check adds the core to the checked entry when its level is enabled.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *fixedLevelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

// With keeps the fixed level on the derived core.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *fixedLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &fixedLevelCore{
		Core:  c.Core.With(fields),
		level: c.level,
	}
}

// WithLevel is a zap option that pins the logger to lvl regardless of the
// global level.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &fixedLevelCore{Core: core, level: lvl}
	})
}

// WithMinLevel returns a context whose logger only writes entries at lvl or above.
// Short-lived CLI commands use it to keep their own output readable.
func WithMinLevel(ctx context.Context, lvl zapcore.Level) context.Context {
	return ToContext(ctx, FromContext(ctx).WithOptions(WithLevel(lvl)))
}
