// Package builder transforms a telemetry snapshot and a parsed template
// into the content block tree consumed by renderers.
//
// Building is a pure transformation with no I/O: the same snapshot and
// template always produce an identical tree, which is what makes the
// format-consistency guarantees between renderers testable. Binding
// markers (@metrics, @logs, @traces, @chart) are expanded against the
// snapshot; @var markers and [[name]] placeholders are resolved from the
// variable set. Referencing an unknown variable fails the build with
// ErrCodeBinding.
//
// Panels bound from a degraded snapshot section carry the degradation
// reason, so renderers can surface an unavailability marker instead of
// silently showing stale or missing data.
package builder
