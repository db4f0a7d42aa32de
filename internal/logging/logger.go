// Package logging provides the structured logger used by the driver and,
// optionally, injected into the core matching package. It follows
// pkg/logger's shape: slog-based, JSON or text, with optional file
// rotation via lumberjack.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lanternfin/matchcore/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init builds a *slog.Logger from cfg and installs it as the process
// default. The core matching package never calls Init or imports this
// package directly — it only accepts an optional *slog.Logger at
// construction, keeping domain code independent of the concrete sink.
func Init(cfg config.LoggerConfig) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var output io.Writer
	switch cfg.Output {
	case "file":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, err
		}
		output = rotatingFile(cfg)
	case "both":
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, err
		}
		output = io.MultiWriter(os.Stdout, rotatingFile(cfg))
	default:
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.WithCaller,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

func rotatingFile(cfg config.LoggerConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// LogDuration records the elapsed time of an operation; call the returned
// func in a defer. No code in this repository calls it; in particular the
// core's hot path never does.
func LogDuration(logger *slog.Logger, msg string, args ...any) func() {
	start := time.Now()
	return func() {
		args = append(args, slog.Duration("duration", time.Since(start)))
		logger.Info(msg, args...)
	}
}
