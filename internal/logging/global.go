package logging

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

var fallback = slog.New(slog.NewTextHandler(os.Stderr, nil))

func logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return fallback
}

func Debug(msg string, args ...any) { logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { logger().Warn(msg, args...) }
func Error(msg string, args ...any) { logger().Error(msg, args...) }

// With returns the global logger with attrs attached.
func With(args ...any) *slog.Logger { return logger().With(args...) }
