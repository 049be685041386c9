package observability

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	loggerMu sync.Mutex
	logger   *slog.Logger
)

// InitLogger configures the package logger. Production emits JSON lines for
// log shipping, development uses the text handler.
func InitLogger(production bool) {
	InitLoggerWithLevel(production, slog.LevelInfo)
}

// InitLoggerWithLevel configures the package logger at an explicit level.
func InitLoggerWithLevel(production bool, level slog.Level) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = newLogger(os.Stdout, production, level)
	slog.SetDefault(logger)
}

func newLogger(w io.Writer, production bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if production {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// base returns the configured logger, falling back to the development
// default when nothing called InitLogger yet.
func base() *slog.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = newLogger(os.Stdout, false, slog.LevelInfo)
		slog.SetDefault(logger)
	}
	return logger
}

func Debug(msg string, args ...any) { base().Debug(msg, args...) }
func Info(msg string, args ...any)  { base().Info(msg, args...) }
func Warn(msg string, args ...any)  { base().Warn(msg, args...) }
func Error(msg string, args ...any) { base().Error(msg, args...) }

// Fatal logs at error level and exits the process.
func Fatal(msg string, args ...any) {
	base().Error(msg, args...)
	os.Exit(1)
}

// WithSymbol scopes the logger to one stock symbol.
func WithSymbol(symbol string) *slog.Logger {
	return base().With("symbol", symbol)
}

// WithProvider scopes the logger to one upstream provider.
func WithProvider(provider string) *slog.Logger {
	return base().With("provider", provider)
}

// WithError attaches an error field.
func WithError(err error) *slog.Logger {
	return base().With("error", err)
}
