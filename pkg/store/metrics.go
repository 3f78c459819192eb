package store

import (
	"sync"
	"time"

	"github.com/boattime/portfolio/pkg/telemetry"
)

// MetricStore is a thread-safe in-memory store for metric samples.
type MetricStore struct {
	mu      sync.RWMutex
	metrics []telemetry.Metric
}

// NewMetricStore creates an empty metric store.
func NewMetricStore() *MetricStore {
	return &MetricStore{}
}

// Add appends a metric sample to the store.
func (s *MetricStore) Add(m telemetry.Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, m)
}

// AddBatch appends multiple metric samples in one lock acquisition.
func (s *MetricStore) AddBatch(metrics []telemetry.Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, metrics...)
}

// All returns a copy of every stored metric.
func (s *MetricStore) All() []telemetry.Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]telemetry.Metric, len(s.metrics))
	copy(out, s.metrics)
	return out
}

// ByName returns all samples with the given metric name.
func (s *MetricStore) ByName(name string) []telemetry.Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []telemetry.Metric
	for _, m := range s.metrics {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// ByLabel returns all samples carrying the given label key/value pair.
func (s *MetricStore) ByLabel(key, value string) []telemetry.Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []telemetry.Metric
	for _, m := range s.metrics {
		if m.HasLabelValue(key, value) {
			out = append(out, m)
		}
	}
	return out
}

// InRange returns samples with timestamps in [from, to).
func (s *MetricStore) InRange(from, to time.Time) []telemetry.Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []telemetry.Metric
	for _, m := range s.metrics {
		if !m.Timestamp.Before(from) && m.Timestamp.Before(to) {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of stored samples.
func (s *MetricStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.metrics)
}

// Prune removes samples older than the cutoff and returns how many were
// dropped.
func (s *MetricStore) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.metrics[:0]
	for _, m := range s.metrics {
		if !m.Timestamp.Before(cutoff) {
			kept = append(kept, m)
		}
	}
	dropped := len(s.metrics) - len(kept)
	s.metrics = kept
	return dropped
}
