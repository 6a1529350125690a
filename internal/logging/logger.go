package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bisub/internal/config"
)

// LogFileName is the JSON log written beneath the configured log directory.
const LogFileName = "bisub.log"

// New builds a logger with a single sink: console or JSON records at level
// written to w. Debug level also records the caller.
func New(w io.Writer, format, level string) (*slog.Logger, error) {
	lvl := new(slog.LevelVar)
	lvl.Set(parseLevel(level))
	sink, err := consoleSink(format, w, lvl)
	if err != nil {
		return nil, err
	}
	return slog.New(sink), nil
}

// NewFromConfig builds the application logger: the configured format on
// console (os.Stderr when nil) plus a JSON copy appended to
// <log_dir>/bisub.log when a log directory is set. Both sinks share one level.
func NewFromConfig(cfg *config.Config, console io.Writer) (*slog.Logger, error) {
	if console == nil {
		console = os.Stderr
	}
	if cfg == nil {
		return New(console, "console", "info")
	}
	lvl := new(slog.LevelVar)
	lvl.Set(parseLevel(cfg.Logging.Level))
	primary, err := consoleSink(cfg.Logging.Format, console, lvl)
	if err != nil {
		return nil, err
	}
	logDir := strings.TrimSpace(cfg.Paths.LogDir)
	if logDir == "" {
		return slog.New(primary), nil
	}
	file, err := openLogFile(filepath.Join(logDir, LogFileName))
	if err != nil {
		return nil, err
	}
	return slog.New(newSplitHandler(primary, newJSONHandler(file, lvl, withSource(lvl)))), nil
}

func consoleSink(format string, w io.Writer, lvl *slog.LevelVar) (slog.Handler, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		return newPrettyHandler(w, lvl, withSource(lvl)), nil
	case "json":
		return newJSONHandler(w, lvl, withSource(lvl)), nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

func withSource(lvl *slog.LevelVar) bool {
	return lvl.Level() <= slog.LevelDebug
}

func parseLevel(level string) slog.Level {
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

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
