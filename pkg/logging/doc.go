// Package logging provides structured logging utilities for the portfolio
// dashboard generator.
//
// It wraps the standard library slog package with project defaults: JSON
// output to stderr, environment-based log level configuration, module and
// version context injection, and source location tracking for debug logs.
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("portfoliod", "v1.0.0")
//
//	    slog.Info("generation cycle started", "cycle", 42)
//	    slog.Debug("template parsed", "blocks", n)
//	    slog.Error("render failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("scheduler", "v1.0.0", "debug")
//	logger.Info("tick", "interval", interval)
//
// The LOG_LEVEL environment variable controls verbosity when no explicit
// level is given (DEBUG, INFO, WARN, ERROR; case-insensitive; defaults to
// INFO).
package logging
