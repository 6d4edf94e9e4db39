package delos

import (
	"fmt"
	"log"
	"log/slog"

	"go.uber.org/zap"
)

// Logger is a minimal printf-style logging interface for the SDK.
// It's compatible with the standard library log.Logger.
// For leveled logging, use StructuredLogger instead.
type Logger interface {
	// Printf logs a formatted message.
	Printf(format string, v ...any)
}

// StructuredLogger provides structured logging support for the SDK.
// This is the preferred logging interface and is compatible with Go 1.21's
// slog package and similar structured logging libraries.
//
// Use WithStructuredLogger() to configure:
//
//	client, _ := delos.New(
//	    delos.WithStructuredLogger(delos.NewSlogAdapter(slog.Default())),
//	)
type StructuredLogger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}

// printfLoggerWrapper wraps a printf-style logger to implement StructuredLogger.
type printfLoggerWrapper struct {
	logger Logger
}

// WrapPrintfLogger wraps a printf-style Logger (like *log.Logger) to
// implement StructuredLogger. All messages are logged through Printf with
// the level tag and formatted key-value pairs appended.
func WrapPrintfLogger(l Logger) StructuredLogger {
	return &printfLoggerWrapper{logger: l}
}

// WrapStdLogger wraps a standard library *log.Logger to implement
// StructuredLogger. This is a convenience function equivalent to
// WrapPrintfLogger(l).
func WrapStdLogger(l *log.Logger) StructuredLogger {
	return &printfLoggerWrapper{logger: &stdLogger{logger: l}}
}

func (w *printfLoggerWrapper) Debug(msg string, args ...any) {
	w.logger.Printf("[DEBUG] " + msg + formatArgs(args))
}

func (w *printfLoggerWrapper) Info(msg string, args ...any) {
	w.logger.Printf("[INFO] " + msg + formatArgs(args))
}

func (w *printfLoggerWrapper) Warn(msg string, args ...any) {
	w.logger.Printf("[WARN] " + msg + formatArgs(args))
}

func (w *printfLoggerWrapper) Error(msg string, args ...any) {
	w.logger.Printf("[ERROR] " + msg + formatArgs(args))
}

// Ensure printfLoggerWrapper implements StructuredLogger.
var _ StructuredLogger = (*printfLoggerWrapper)(nil)

// stdLogger wraps the standard library logger.
type stdLogger struct {
	logger *log.Logger
}

func (l *stdLogger) Printf(format string, v ...any) {
	l.logger.Printf(format, v...)
}

// formatArgs formats structured logging arguments as a string.
func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}
	result := " |"
	for i := 0; i < len(args)-1; i += 2 {
		result += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	return result
}

// NopLogger is a logger that discards all log messages.
// It is the default when no logger is configured.
type NopLogger struct{}

// Printf implements Logger.Printf.
func (NopLogger) Printf(format string, v ...any) {}

// Debug implements StructuredLogger.Debug.
func (NopLogger) Debug(msg string, args ...any) {}

// Info implements StructuredLogger.Info.
func (NopLogger) Info(msg string, args ...any) {}

// Warn implements StructuredLogger.Warn.
func (NopLogger) Warn(msg string, args ...any) {}

// Error implements StructuredLogger.Error.
func (NopLogger) Error(msg string, args ...any) {}

// Ensure NopLogger implements both interfaces.
var (
	_ Logger           = NopLogger{}
	_ StructuredLogger = NopLogger{}
)

// MaskCredential masks a credential string for safe logging.
// It shows only the last 4 characters; short strings are fully masked.
//
// Examples:
//
//	MaskCredential("dk-1234567890abcdef") => "**************cdef"
//	MaskCredential("key") => "****"
func MaskCredential(s string) string {
	if s == "" {
		return ""
	}

	const visibleSuffix = 4

	if len(s) <= visibleSuffix {
		return "****"
	}

	masked := make([]byte, len(s)-visibleSuffix)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + s[len(s)-visibleSuffix:]
}

// SlogAdapter adapts a slog.Logger to the StructuredLogger interface.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	client, _ := delos.New(
//	    delos.WithStructuredLogger(delos.NewSlogAdapter(logger)),
//	)
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter wrapping the given slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug implements StructuredLogger.Debug.
func (a *SlogAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

// Info implements StructuredLogger.Info.
func (a *SlogAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

// Warn implements StructuredLogger.Warn.
func (a *SlogAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

// Error implements StructuredLogger.Error.
func (a *SlogAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}

// WithGroup returns a new SlogAdapter with a log group prefix.
func (a *SlogAdapter) WithGroup(name string) *SlogAdapter {
	return &SlogAdapter{logger: a.logger.WithGroup(name)}
}

// With returns a new SlogAdapter with the given attributes added.
func (a *SlogAdapter) With(args ...any) *SlogAdapter {
	return &SlogAdapter{logger: a.logger.With(args...)}
}

// Ensure SlogAdapter implements StructuredLogger.
var _ StructuredLogger = (*SlogAdapter)(nil)

// ZapAdapter adapts a zap.Logger to the StructuredLogger interface.
//
// Example:
//
//	logger, _ := zap.NewProduction()
//	client, _ := delos.New(
//	    delos.WithStructuredLogger(delos.NewZapAdapter(logger)),
//	)
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter creates a new ZapAdapter wrapping the given zap.Logger.
// If logger is nil, zap.NewNop() is used.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAdapter{logger: logger}
}

// Debug implements StructuredLogger.Debug.
func (a *ZapAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, zapFields(args)...)
}

// Info implements StructuredLogger.Info.
func (a *ZapAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, zapFields(args)...)
}

// Warn implements StructuredLogger.Warn.
func (a *ZapAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, zapFields(args)...)
}

// Error implements StructuredLogger.Error.
func (a *ZapAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, zapFields(args)...)
}

// zapFields converts alternating key-value args into zap fields.
// Non-string keys are stringified rather than dropped.
func zapFields(args []any) []zap.Field {
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return fields
}

// Ensure ZapAdapter implements StructuredLogger.
var _ StructuredLogger = (*ZapAdapter)(nil)
