// Package block defines the intermediate representation for dashboard
// content.
//
// A Block tree is the format-agnostic output of the content builder and the
// sole input to every renderer. Blocks are ordered, tree-shaped values with
// no behavior; one tree represents one complete generation cycle. The set
// of kinds is closed, and renderers are expected to handle every kind.
//
// Visualization blocks carry pre-scaled values. Normalization happens once,
// when the block is constructed, so every renderer draws from identical
// numbers regardless of output format.
package block
