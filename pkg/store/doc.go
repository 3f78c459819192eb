// Package store provides thread-safe in-memory storage for telemetry data.
//
// Each store guards its backing slice with a sync.RWMutex and returns copies
// from every query, so callers never share memory with the store. Stores
// support time-range queries plus type-specific filters (label values for
// metrics, parent IDs for spans, severity levels for logs), and prune
// entries older than a retention window.
//
// The package also provides a last-known-good snapshot cache used to serve
// degraded dashboards when live collection fails.
package store
