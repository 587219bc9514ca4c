package utils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ANSI colour codes, applied to the level column of text output
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
)

// LevelSuccess sits between INFO and WARN so "OK" lines survive an info filter.
const LevelSuccess = slog.Level(2)

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger. format is "json" or "text"; text output is coloured.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(levelName(lvl))
				}
			}
			return a
		},
	}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	textOpts := *opts
	textOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 {
			return a
		}
		switch a.Key {
		case slog.TimeKey:
			return slog.String(slog.TimeKey, a.Value.Time().Format("15:04:05"))
		case slog.LevelKey:
			if lvl, ok := a.Value.Any().(slog.Level); ok {
				return slog.String(slog.LevelKey, colorFor(lvl)+levelName(lvl)+reset)
			}
		}
		return a
	}
	return slog.New(slog.NewTextHandler(w, &textOpts))
}

func levelName(l slog.Level) string {
	switch {
	case l == LevelSuccess:
		return "OK"
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func colorFor(l slog.Level) string {
	switch {
	case l == LevelSuccess:
		return green
	case l >= slog.LevelError:
		return red
	case l >= slog.LevelWarn:
		return yellow
	case l >= slog.LevelInfo:
		return blue
	default:
		return cyan
	}
}

func Info(format string, a ...interface{}) {
	slog.Info(fmt.Sprintf(format, a...))
}

func Success(format string, a ...interface{}) {
	slog.Log(context.Background(), LevelSuccess, fmt.Sprintf(format, a...))
}

func Warn(format string, a ...interface{}) {
	slog.Warn(fmt.Sprintf(format, a...))
}

func Error(format string, a ...interface{}) {
	slog.Error(fmt.Sprintf(format, a...))
}
