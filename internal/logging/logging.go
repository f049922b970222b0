// Package logging builds the root slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log level and destination.
type Options struct {
	Level string
	// File enables JSON logs with rotation. Empty logs text to stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// New creates a logger and the closer of its output.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if opts.File == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = 10
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = 5
	}
	writer := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     30,
		Compress:   true,
	}
	return slog.New(slog.NewJSONHandler(writer, handlerOpts)), writer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
