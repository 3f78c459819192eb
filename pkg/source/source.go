package source

import (
	"context"

	"github.com/boattime/portfolio/pkg/telemetry"
)

// MetricsSource collects metric samples for one dashboard cycle.
type MetricsSource interface {
	Name() string
	CollectMetrics(ctx context.Context) ([]telemetry.Metric, error)
}

// SpanSource collects trace spans for one dashboard cycle.
type SpanSource interface {
	Name() string
	CollectSpans(ctx context.Context) ([]telemetry.Span, error)
}

// LogSource collects log entries for one dashboard cycle.
type LogSource interface {
	Name() string
	CollectLogs(ctx context.Context) ([]telemetry.LogEntry, error)
}
