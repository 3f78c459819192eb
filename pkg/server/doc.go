// Package server provides the daemon's operational HTTP listener.
//
// It exposes liveness and readiness probes, a JSON status endpoint
// reporting the scheduler's cycle state, and Prometheus metrics. It does
// not serve the generated dashboards; publishing is the artifact sinks'
// job.
package server
