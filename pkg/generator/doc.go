// Package generator runs one complete dashboard generation cycle.
//
// A cycle collects telemetry from every configured source in parallel,
// assembles an immutable snapshot, binds it into the template's block
// tree, renders the tree to HTML and plain text in parallel, and
// publishes the resulting artifact set.
//
// Collection failures degrade rather than abort: a section whose sources
// all fail falls back to the last successfully collected snapshot and is
// flagged so both documents carry an explicit unavailability notice.
// Build, render, and publish failures abort only the current cycle.
package generator
