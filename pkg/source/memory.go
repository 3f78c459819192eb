package source

import (
	"context"
	"time"

	"github.com/boattime/portfolio/pkg/defaults"
	"github.com/boattime/portfolio/pkg/store"
	"github.com/boattime/portfolio/pkg/telemetry"
)

// StoreMetrics serves metric samples from the in-memory store, limited to
// a recency window.
type StoreMetrics struct {
	store  *store.MetricStore
	window time.Duration
}

// NewStoreMetrics creates a store-backed metrics source.
func NewStoreMetrics(s *store.MetricStore, window time.Duration) *StoreMetrics {
	return &StoreMetrics{store: s, window: window}
}

// Name implements MetricsSource.
func (s *StoreMetrics) Name() string {
	return "store-metrics"
}

// CollectMetrics implements MetricsSource. Entries past the retention
// horizon are pruned before the window is read.
func (s *StoreMetrics) CollectMetrics(ctx context.Context) ([]telemetry.Metric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now()
	s.store.Prune(now.Add(-defaults.StoreRetention))
	return s.store.InRange(now.Add(-s.window), now.Add(time.Second)), nil
}

// StoreSpans serves trace spans from the in-memory store.
type StoreSpans struct {
	store  *store.SpanStore
	window time.Duration
}

// NewStoreSpans creates a store-backed span source.
func NewStoreSpans(s *store.SpanStore, window time.Duration) *StoreSpans {
	return &StoreSpans{store: s, window: window}
}

// Name implements SpanSource.
func (s *StoreSpans) Name() string {
	return "store-spans"
}

// CollectSpans implements SpanSource. Entries past the retention horizon
// are pruned before the window is read.
func (s *StoreSpans) CollectSpans(ctx context.Context) ([]telemetry.Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now()
	s.store.Prune(now.Add(-defaults.StoreRetention))
	return s.store.InRange(now.Add(-s.window), now.Add(time.Second)), nil
}

// StoreLogs serves log entries from the in-memory store.
type StoreLogs struct {
	store    *store.LogStore
	window   time.Duration
	minLevel telemetry.Level
}

// NewStoreLogs creates a store-backed log source filtered to the given
// minimum severity.
func NewStoreLogs(s *store.LogStore, window time.Duration, minLevel telemetry.Level) *StoreLogs {
	return &StoreLogs{store: s, window: window, minLevel: minLevel}
}

// Name implements LogSource.
func (s *StoreLogs) Name() string {
	return "store-logs"
}

// CollectLogs implements LogSource. Entries past the retention horizon
// are pruned before the window is read.
func (s *StoreLogs) CollectLogs(ctx context.Context) ([]telemetry.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now()
	s.store.Prune(now.Add(-defaults.StoreRetention))
	var out []telemetry.LogEntry
	for _, e := range s.store.InRange(now.Add(-s.window), now.Add(time.Second)) {
		if e.Level >= s.minLevel {
			out = append(out, e)
		}
	}
	return out, nil
}
