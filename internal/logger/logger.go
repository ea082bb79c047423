package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// defaultMaxSizeMB is the size at which the log file is rotated.
	defaultMaxSizeMB = 50
	// defaultMaxBackups is the number of rotated files kept on disk.
	defaultMaxBackups = 5
	// defaultMaxAgeDays is how long rotated files are kept.
	defaultMaxAgeDays = 14
)

var (
	// global is the shared logger instance used throughout the application.
	//nolint:gochecknoglobals // Logger is used all over the project, so it's okay.
	global *zap.SugaredLogger
	// level is the minimum level of the global logger; it can change at runtime.
	//nolint:gochecknoglobals // Level is shared by every core built by this package.
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() { //nolint:gochecknoinits // The application must have a usable logger before main runs.
	SetLogger(New(level))
}

// consoleEncoder returns the encoder used for both console and file output.
func consoleEncoder() zapcore.Encoder {
	//nolint:exhaustruct // Default values are fine for the remaining fields.
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "message",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: ", ",
	})
}

// New creates a console logger on stdout.
// A nil level selects the package level.
func New(enabler zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	return NewWithWriter(os.Stdout, enabler, options...)
}

// NewWithWriter creates a console logger writing to w.
func NewWithWriter(w io.Writer, enabler zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if enabler == nil {
		enabler = level
	}

	core := zapcore.NewCore(consoleEncoder(), zapcore.AddSync(w), enabler)

	return zap.New(core, options...).Sugar()
}

// NewWithFile creates a logger that writes to stdout and to a rotating file at path.
func NewWithFile(path string, enabler zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if enabler == nil {
		enabler = level
	}

	//nolint:exhaustruct // Compression and local time keep their defaults.
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAgeDays,
	}

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder(), zapcore.AddSync(os.Stdout), enabler),
		zapcore.NewCore(consoleEncoder(), zapcore.AddSync(rotator), enabler),
	)

	return zap.New(core, options...).Sugar()
}

// Configure applies the level name and, when file is not empty, replaces the
// global logger with one that also writes to file.
// An unknown level name keeps the current level and returns false.
func Configure(levelName, file string) bool {
	parsed, ok := ParseLogLevel(levelName)
	if ok {
		SetLevel(parsed)
	}

	if file != "" {
		SetLogger(NewWithFile(file, level))
	}

	return ok
}

// ParseLogLevel converts string input to zap log level.
func ParseLogLevel(s string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	case "fatal":
		return zapcore.FatalLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Level returns the current logging level of the global logger.
func Level() zapcore.Level {
	return level.Level()
}

// SetLogger sets the global logger.
// This function is not thread-safe.
func SetLogger(l *zap.SugaredLogger) {
	global = l
}

// SetLevel sets the log level for the global logger.
func SetLevel(lvl zapcore.Level) {
	level.SetLevel(lvl)
}

// Sync flushes the global logger.
func Sync() {
	//nolint:errcheck // Stdout sync errors are not actionable.
	_ = global.Sync()
}

// DebugKV writes a message and key-value pairs
// at the debug level using the logger from the context.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Debugw(message, kvs...)
}

// Info writes an information level message using the logger from the context.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// InfoKV writes a message and key-value pairs
// at the information level using the logger from the context.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Infow(message, kvs...)
}

// Warn writes a warning level message using the logger from the context.
func Warn(ctx context.Context, args ...any) {
	FromContext(ctx).Warn(args...)
}

// WarnKV writes a message and key-value pairs
// at the warning level using the logger from the context.
func WarnKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Warnw(message, kvs...)
}

// ErrorKV writes a message and key-value pairs
// at the error level using the logger from the context.
func ErrorKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Errorw(message, kvs...)
}
