// Package telemetry defines the value types collected during a generation
// cycle: metrics, trace spans, and log entries, plus the immutable Snapshot
// that groups one cycle's worth of them.
//
// All types in this package are plain values with no behavior beyond
// construction and read helpers. A Snapshot is built once by the generator
// and shared read-only across the render stage; nothing in this package
// mutates a Snapshot after NewSnapshot returns.
package telemetry
