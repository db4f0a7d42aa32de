package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/lanternfin/matchcore/internal/config"
)

func TestInitDefaultsToStdoutJSON(t *testing.T) {
	logger, err := Init(config.LoggerConfig{Level: "info", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestInitRejectsUnwritableFilePath(t *testing.T) {
	// A file path under a directory that cannot be created (a file, not a
	// directory, in its place) makes MkdirAll fail.
	dir := t.TempDir()
	blocker := dir + "/blocker"
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	_, err := Init(config.LoggerConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: blocker + "/sub/matchcore.log",
	})
	if err == nil {
		t.Fatal("expected error initializing logger with unwritable path")
	}
}

func TestLogDurationEmitsRecord(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)

	done := LogDuration(logger, "operation finished")
	done()

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	if record["msg"] != "operation finished" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if _, ok := record["duration"]; !ok {
		t.Fatal("expected duration attribute in log record")
	}
}
