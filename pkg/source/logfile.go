package source

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/boattime/portfolio/pkg/errors"
	"github.com/boattime/portfolio/pkg/telemetry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonLine mirrors the common structured log line shape.
type jsonLine struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
	Source  string `json:"source"`
	Module  string `json:"module"`
}

// LogFile reads log entries from a file. Lines that parse as JSON are
// mapped field by field; anything else becomes an info-level entry with
// the raw line as its message.
type LogFile struct {
	path     string
	maxLines int
}

// NewLogFile creates a file-backed log source keeping at most maxLines
// of the newest entries.
func NewLogFile(path string, maxLines int) *LogFile {
	if maxLines <= 0 {
		maxLines = 100
	}
	return &LogFile{path: path, maxLines: maxLines}
}

// Name implements LogSource.
func (s *LogFile) Name() string {
	return "logfile"
}

// CollectLogs implements LogSource.
func (s *LogFile) CollectLogs(ctx context.Context) ([]telemetry.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCollectionUnavailable, "failed to open log file", err)
	}
	defer f.Close()

	var entries []telemetry.LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entries = append(entries, parseLine(line))
		if len(entries) > s.maxLines {
			entries = entries[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedResponse, "failed to read log file", err)
	}

	return entries, nil
}

func parseLine(line string) telemetry.LogEntry {
	if strings.HasPrefix(line, "{") {
		var parsed jsonLine
		if err := json.UnmarshalFromString(line, &parsed); err == nil {
			entry := telemetry.LogEntry{Message: parsed.Msg, Source: parsed.Source}
			if entry.Message == "" {
				entry.Message = parsed.Message
			}
			if entry.Source == "" {
				entry.Source = parsed.Module
			}
			if level, ok := telemetry.ParseLevel(parsed.Level); ok {
				entry.Level = level
			}
			if ts, err := time.Parse(time.RFC3339, parsed.Time); err == nil {
				entry.Timestamp = ts
			}
			if entry.Message != "" {
				return entry
			}
		}
	}
	return telemetry.LogEntry{Message: line, Level: telemetry.LevelInfo}
}
