package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"revclass/internal/logging"
	"revclass/internal/testsupport"
)

func TestNewWritesToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revclass.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hello", "record_id", "10.1/a")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"record_id":"10.1/a"`) {
		t.Fatalf("log output %q missing structured field", data)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigMirrorsToLogDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("startup")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "revclass.log"))
	if err != nil {
		t.Fatalf("read mirrored log: %v", err)
	}
	if !strings.Contains(string(data), "startup") {
		t.Fatalf("mirrored log missing entry: %q", data)
	}
}

func TestFieldHelpers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WithRun(logging.WithComponent(logger, "classifier"), "run-123").Info("tick")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{`"component":"classifier"`, `"run_id":"run-123"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("log %q missing %s", data, want)
		}
	}
}
