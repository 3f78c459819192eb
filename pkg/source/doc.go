// Package source collects telemetry from configurable backends.
//
// A source implements one of the three typed interfaces (MetricsSource,
// SpanSource, LogSource) and is queried once per generation cycle with a
// per-cycle deadline. Remote sources (Prometheus, InfluxDB) are rate
// limited so a fast cycle interval cannot hammer the backend; local
// sources serve from the in-memory stores or from files.
//
// Failed or timed-out collections return ErrCodeCollectionUnavailable or
// ErrCodeTimeout and are degraded, not fatal: the generator substitutes
// cached data and marks the affected dashboard section.
package source
