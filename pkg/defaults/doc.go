// Package defaults provides centralized configuration constants for the
// portfolio dashboard generator.
//
// It defines the generation interval, collection and render timeouts, worker
// pool sizing, and server configuration defaults used across the codebase.
// Centralizing these values ensures consistency and makes tuning easier.
//
// Import and use constants directly:
//
//	import "github.com/boattime/portfolio/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CollectionTimeout)
//	defer cancel()
package defaults
