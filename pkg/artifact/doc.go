// Package artifact defines the output of a generation cycle and the sinks
// that publish it.
//
// A Set pairs the rendered HTML and plain-text documents with the cycle
// metadata they were produced under. Sinks publish a Set atomically from
// the reader's point of view: a failed publish leaves the previously
// published set in place.
package artifact
