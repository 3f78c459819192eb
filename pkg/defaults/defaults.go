package defaults

import "time"

// Generation cycle configuration.
const (
	// GenerationInterval is the default period between dashboard
	// generation cycles. A cycle that overruns the interval causes the
	// following tick to be skipped, never queued.
	GenerationInterval = 30 * time.Second

	// CycleTimeout bounds a full generation cycle, collection through
	// artifact write.
	CycleTimeout = 25 * time.Second
)

// Collection timeouts for telemetry gathering.
const (
	// CollectionTimeout is the default timeout for a single telemetry
	// source query. Sources should respect parent context deadlines
	// when shorter.
	CollectionTimeout = 500 * time.Millisecond

	// FallbackDeadline is the latest point after a collection timeout
	// by which a degraded dashboard must be produced from cached data.
	FallbackDeadline = 600 * time.Millisecond
)

// Render configuration.
const (
	// RenderTimeout bounds a single renderer pass over a built page.
	RenderTimeout = 5 * time.Second

	// TextWidth is the default column width for plain-text output.
	TextWidth = 80
)

// Worker pool configuration.
const (
	// QueueDepth is the bounded task queue capacity per worker pool.
	// Submissions beyond this are rejected, not blocked.
	QueueDepth = 16

	// DrainTimeout is how long a stopping pool waits for in-flight
	// tasks before abandoning them.
	DrainTimeout = 10 * time.Second
)

// Server timeouts for the ops HTTP endpoint.
const (
	// ServerReadTimeout is the maximum duration for reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 10 * time.Second

	// ServerShutdownTimeout is the graceful shutdown window.
	ServerShutdownTimeout = 30 * time.Second
)

// Store retention.
const (
	// StoreRetention is how long telemetry entries are kept in the
	// in-memory stores before pruning.
	StoreRetention = 1 * time.Hour
)
