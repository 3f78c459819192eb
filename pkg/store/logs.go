package store

import (
	"sync"
	"time"

	"github.com/boattime/portfolio/pkg/telemetry"
)

// LogStore is a thread-safe in-memory store for log entries.
type LogStore struct {
	mu      sync.RWMutex
	entries []telemetry.LogEntry
}

// NewLogStore creates an empty log store.
func NewLogStore() *LogStore {
	return &LogStore{}
}

// Add appends a log entry to the store.
func (s *LogStore) Add(e telemetry.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

// AddBatch appends multiple log entries in one lock acquisition.
func (s *LogStore) AddBatch(entries []telemetry.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// All returns a copy of every stored entry.
func (s *LogStore) All() []telemetry.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]telemetry.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// AtLeast returns entries at or above the given severity level.
func (s *LogStore) AtLeast(level telemetry.Level) []telemetry.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []telemetry.LogEntry
	for _, e := range s.entries {
		if e.Level >= level {
			out = append(out, e)
		}
	}
	return out
}

// BySource returns entries emitted by the given source.
func (s *LogStore) BySource(source string) []telemetry.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []telemetry.LogEntry
	for _, e := range s.entries {
		if e.Source == source {
			out = append(out, e)
		}
	}
	return out
}

// InRange returns entries with timestamps in [from, to).
func (s *LogStore) InRange(from, to time.Time) []telemetry.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []telemetry.LogEntry
	for _, e := range s.entries {
		if !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of stored entries.
func (s *LogStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Prune removes entries older than the cutoff and returns how many were
// dropped.
func (s *LogStore) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if !e.Timestamp.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	dropped := len(s.entries) - len(kept)
	s.entries = kept
	return dropped
}
