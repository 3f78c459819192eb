// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// The error codes mirror the failure taxonomy of the generation pipeline:
// collection failures degrade the cycle, binding/template/render failures
// abort the current cycle only, and timeouts trigger the fallback policy.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeCollectionUnavailable,
//	    "metrics query failed",
//	    cause,
//	    map[string]interface{}{
//	        "source": "influx",
//	        "expr":   expr,
//	    },
//	)
package errors
