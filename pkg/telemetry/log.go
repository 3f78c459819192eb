package telemetry

import (
	"strings"
	"time"
)

// Level is an ordered log severity: Debug < Info < Warning < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the canonical upper-case name of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel parses a level name, accepting the common abbreviations
// WARN and ERR. Returns the level and whether parsing succeeded.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARNING", "WARN":
		return LevelWarning, true
	case "ERROR", "ERR":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// LogEntry is one structured log record attributed to a source component.
type LogEntry struct {
	Message   string            `json:"message" yaml:"message"`
	Level     Level             `json:"level" yaml:"level"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
	Source    string            `json:"source" yaml:"source"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewLogEntry creates a LogEntry stamped with the current time.
func NewLogEntry(message string, level Level, source string) LogEntry {
	return LogEntry{
		Message:   message,
		Level:     level,
		Timestamp: time.Now().UTC(),
		Source:    source,
	}
}

// WithMetadata returns a copy of the entry with the given metadata entry set.
func (e LogEntry) WithMetadata(key, value string) LogEntry {
	md := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}
