// Package template parses dashboard template files into a directive tree.
//
// Templates are plain text with @directive{...} markers:
//
//	@heading{1}{Dashboard Overview}
//	@paragraph{Status as of [[current_time]].}
//	@command{system status}
//	@frame{Recent Logs}{
//	  @logs
//	}
//	@chart{bar}{linear}
//
// Structural directives (@frame, @output) nest; binding markers (@metrics,
// @logs, @traces, @chart, @var) are resolved later by the content builder
// against a telemetry snapshot. Parse errors report line and column and
// carry the ErrCodeMalformedTemplate code.
//
// The Store loads templates from a directory with an in-memory cache and
// optional fsnotify-driven invalidation, so edited templates take effect
// on the next generation cycle without a restart.
package template
