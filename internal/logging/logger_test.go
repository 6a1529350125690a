package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bisub/internal/config"
	"bisub/internal/logging"
	"bisub/internal/services"
)

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "info"

	logger, err := logging.NewFromConfig(&cfg, io.Discard)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("run finished", logging.String("status", "completed"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", content, err)
	}
	if entry["msg"] != "run finished" || entry["status"] != "completed" || entry["level"] != "info" {
		t.Fatalf("unexpected log entry %v", entry)
	}
}

func TestNewFromConfigRejectsUnknownFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if _, err := logging.NewFromConfig(&cfg, io.Discard); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLoggerCallerDependsOnLevel(t *testing.T) {
	for level, wantCaller := range map[string]bool{"info": false, "debug": true} {
		var buf bytes.Buffer
		logger, err := logging.New(&buf, "console", level)
		if err != nil {
			t.Fatalf("New(%s) returned error: %v", level, err)
		}
		logger.Info("caller check")
		if got := strings.Contains(buf.String(), ".go:"); got != wantCaller {
			t.Fatalf("level %s: caller present = %v in %q", level, got, buf.String())
		}
	}
}

func TestConsoleLoggerRendersComponentAndSubject(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "console", "info")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithChunk(services.WithRunID(context.Background(), "0123456789abcdef"), 2)
	componentLogger := logging.NewComponentLogger(logger, "workflow")
	logging.WithContext(ctx, componentLogger).Info("chunk translated", logging.Int("segments", 10), logging.String("target", "pt BR"))

	line := buf.String()
	for _, want := range []string{"INFO", "workflow [run=01234567 chunk=2]: chunk translated", "segments=10", `target="pt BR"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestNewFromConfigSharesLevelAcrossSinks(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "warn"

	var console bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &console)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")

	file, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for name, out := range map[string]string{"console": console.String(), "file": string(file)} {
		if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
			t.Fatalf("%s sink ignored the level: %q", name, out)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithChunk(ctx, 3)
	ctx = services.WithProvider(ctx, "managed")
	ctx = services.WithRequestID(ctx, "req-xyz")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, logger).Info("contextual log")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	want := map[string]any{
		logging.FieldRunID:         "run-1",
		logging.FieldChunk:         float64(3),
		logging.FieldProvider:      "managed",
		logging.FieldCorrelationID: "req-xyz",
	}
	for key, value := range want {
		if entry[key] != value {
			t.Fatalf("field %s = %v, want %v", key, entry[key], value)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "attempt failed", "translate_attempt_failed", logging.String(logging.FieldImpact, "retrying chunk"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry[logging.FieldEventType] != "translate_attempt_failed" {
		t.Fatalf("unexpected event type %v", entry[logging.FieldEventType])
	}
	if entry[logging.FieldErrorHint] != "see bisub.log in the log directory" {
		t.Fatalf("unexpected error hint %v", entry[logging.FieldErrorHint])
	}
	if entry[logging.FieldImpact] != "retrying chunk" {
		t.Fatalf("impact override lost: %v", entry[logging.FieldImpact])
	}
}
