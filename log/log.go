// Package log provides a thin zap based logging facade.
// Loggers are created once at startup and passed around by name; the
// package level functions operate on the default logger.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

type Logger struct {
	l     *zap.Logger
	level Level
}

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) WithOptions(opts ...Option) *Logger {
	return &Logger{l: l.l.WithOptions(opts...), level: l.level}
}

func (l *Logger) Level() Level { return l.level }

func (l *Logger) Sync() error { return l.l.Sync() }

// Sugar exposes the underlying sugared logger for integrations that
// expect the zap API.
func (l *Logger) Sugar() *zap.SugaredLogger { return l.l.Sugar() }

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

func WithCaller(enabled bool) Option { return zap.WithCaller(enabled) }

func AddCallerSkip(skip int) Option { return zap.AddCallerSkip(skip) }

// New creates a logger with a JSON encoder writing to w.
func New(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		w = os.Stderr
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(w),
		zapcore.Level(level),
	)
	return &Logger{l: zap.New(core, opts...), level: level}
}

// DevLogger creates a logger with a console encoder, meant for local use.
func DevLogger(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		w = os.Stderr
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(w),
		zapcore.Level(level),
	)
	return &Logger{l: zap.New(core, opts...), level: level}
}

var defaultLogger = DevLogger(os.Stderr, InfoLevel)

func Default() *Logger { return defaultLogger }

// ResetDefault replaces the default logger used by the package level funcs.
func ResetDefault(l *Logger) {
	defaultLogger = l
}

func Debug(msg string, fields ...Field) { defaultLogger.l.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { defaultLogger.l.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { defaultLogger.l.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { defaultLogger.l.Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { defaultLogger.l.Fatal(msg, fields...) }
