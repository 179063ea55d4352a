package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showsync/internal/logging"
)

func TestNewWritesToConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "showsync.log")

	logger, err := logging.New(logging.Options{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	logger.Info("sync started", logging.String(logging.FieldScope, "delta"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"msg":"sync started"`) {
		t.Fatalf("expected message in log output, got %q", content)
	}
	if !strings.Contains(content, `"scope":"delta"`) {
		t.Fatalf("expected scope attribute in log output, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewComponentLoggerHandlesNilBase(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "scheduler")
	// Must not panic and must swallow output.
	logger.Info("noop")
}

func TestConsoleHandlerFormatsAttrs(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "console.log")

	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	component := logging.NewComponentLogger(logger, "sync")
	component.Warn("step failed", logging.String(logging.FieldStep, "tmdb-config"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "[sync]") {
		t.Fatalf("expected component prefix, got %q", content)
	}
	if !strings.Contains(content, "step=tmdb-config") {
		t.Fatalf("expected step attribute, got %q", content)
	}
}
