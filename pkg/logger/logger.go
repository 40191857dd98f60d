package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/flpflJ/crypto-chat/config"
)

// Logger is a thin wrapper around slog configured from config.LoggerMode.
// The zero value is usable and falls back to slog's default handler,
// which keeps test construction cheap.
type Logger struct {
	base *slog.Logger
}

func NewLogger(cfg *config.Config) (*Logger, error) {
	level, err := parseLevel(cfg.LoggerMode.Level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	if cfg.LoggerMode.Development {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return &Logger{base: slog.New(handler)}, nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}

func (l Logger) handle() *slog.Logger {
	if l.base == nil {
		return slog.Default()
	}
	return l.base
}

func (l Logger) Debug(msg string, args ...any) { l.handle().Debug(msg, args...) }
func (l Logger) Info(msg string, args ...any)  { l.handle().Info(msg, args...) }
func (l Logger) Warn(msg string, args ...any)  { l.handle().Warn(msg, args...) }
func (l Logger) Error(msg string, args ...any) { l.handle().Error(msg, args...) }

func (l Logger) Infof(format string, args ...any)  { l.handle().Info(fmt.Sprintf(format, args...)) }
func (l Logger) Warnf(format string, args ...any)  { l.handle().Warn(fmt.Sprintf(format, args...)) }
func (l Logger) Errorf(format string, args ...any) { l.handle().Error(fmt.Sprintf(format, args...)) }
