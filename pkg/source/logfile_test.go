package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/boattime/portfolio/pkg/telemetry"
)

func TestLogFileParsesJSONLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	content := `{"time":"2026-08-01T12:00:00Z","level":"ERROR","msg":"db connection lost","source":"db"}
{"time":"2026-08-01T12:00:01Z","level":"warn","message":"high latency","module":"api"}
plain text fallback line
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewLogFile(path, 50)
	logs, err := src.CollectLogs(context.Background())
	if err != nil {
		t.Fatalf("CollectLogs returned error: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("parsed %d entries, want 3", len(logs))
	}

	if logs[0].Level != telemetry.LevelError || logs[0].Message != "db connection lost" || logs[0].Source != "db" {
		t.Errorf("json entry = %+v", logs[0])
	}
	if logs[1].Level != telemetry.LevelWarning || logs[1].Message != "high latency" || logs[1].Source != "api" {
		t.Errorf("alternate field names entry = %+v", logs[1])
	}
	if logs[2].Level != telemetry.LevelInfo || logs[2].Message != "plain text fallback line" {
		t.Errorf("fallback entry = %+v", logs[2])
	}
}

func TestLogFileTailLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	content := ""
	for i := 0; i < 10; i++ {
		content += "line\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewLogFile(path, 4)
	logs, err := src.CollectLogs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 4 {
		t.Errorf("tail limit kept %d entries, want 4", len(logs))
	}
}

func TestLogFileMissing(t *testing.T) {
	src := NewLogFile("/nonexistent/app.log", 10)
	if _, err := src.CollectLogs(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
