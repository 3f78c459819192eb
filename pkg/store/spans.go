package store

import (
	"sync"
	"time"

	"github.com/boattime/portfolio/pkg/telemetry"
)

// SpanStore is a thread-safe in-memory store for trace spans.
type SpanStore struct {
	mu    sync.RWMutex
	spans []telemetry.Span
}

// NewSpanStore creates an empty span store.
func NewSpanStore() *SpanStore {
	return &SpanStore{}
}

// Add appends a span to the store.
func (s *SpanStore) Add(span telemetry.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spans = append(s.spans, span)
}

// AddBatch appends multiple spans in one lock acquisition.
func (s *SpanStore) AddBatch(spans []telemetry.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spans = append(s.spans, spans...)
}

// All returns a copy of every stored span.
func (s *SpanStore) All() []telemetry.Span {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]telemetry.Span, len(s.spans))
	copy(out, s.spans)
	return out
}

// Roots returns all spans without a parent.
func (s *SpanStore) Roots() []telemetry.Span {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []telemetry.Span
	for _, sp := range s.spans {
		if sp.IsRoot() {
			out = append(out, sp)
		}
	}
	return out
}

// Children returns all spans whose parent is the given span ID.
func (s *SpanStore) Children(parentID string) []telemetry.Span {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []telemetry.Span
	for _, sp := range s.spans {
		if sp.ParentID == parentID {
			out = append(out, sp)
		}
	}
	return out
}

// InRange returns spans that started in [from, to).
func (s *SpanStore) InRange(from, to time.Time) []telemetry.Span {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []telemetry.Span
	for _, sp := range s.spans {
		if !sp.Start.Before(from) && sp.Start.Before(to) {
			out = append(out, sp)
		}
	}
	return out
}

// Len returns the number of stored spans.
func (s *SpanStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spans)
}

// Prune removes spans that started before the cutoff and returns how many
// were dropped.
func (s *SpanStore) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.spans[:0]
	for _, sp := range s.spans {
		if !sp.Start.Before(cutoff) {
			kept = append(kept, sp)
		}
	}
	dropped := len(s.spans) - len(kept)
	s.spans = kept
	return dropped
}
