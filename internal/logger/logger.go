package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type Logger struct {
	name     string
	file     string
	function string
}

func New(name string) Logger {
	return Logger{name: name}
}

// Configure installs the process wide slog handler used by every Logger.
func Configure(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func (l Logger) File(file string) Logger {
	l.file = file
	return l
}

func (l Logger) Function(function string) Logger {
	l.function = function
	return l
}

func (l Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	l.log(slog.LevelError, msg, append(args, "error", err)...)
}

// Err logs err and returns it wrapped with msg.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	if err == nil {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.log(slog.LevelError, msg, args...)
	return errors.New(msg)
}

func (l Logger) ErrMsg(msg string) error {
	return l.Error(msg)
}

func (l Logger) ErMsg(msg string) {
	l.log(slog.LevelError, msg)
}

func (l Logger) log(level slog.Level, msg string, args ...any) {
	logger := slog.Default()
	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]any, 0, len(args)+6)
	attrs = append(attrs, "component", l.name)
	if l.file != "" {
		attrs = append(attrs, "file", l.file)
	}
	if l.function != "" {
		attrs = append(attrs, "function", l.function)
	}
	attrs = append(attrs, args...)

	logger.Log(ctx, level, msg, attrs...)
}
