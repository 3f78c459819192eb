// Package render projects content block trees into output bytes.
//
// Two renderers implement the same contract over the same tree: HTML
// produces a styled, self-contained page and Text produces monospace
// boxed output for terminals. Both must handle every block kind; an
// unrecognized kind fails the render with ErrCodeRender rather than being
// silently skipped.
//
// Data-bearing blocks are formatted from shared extraction helpers, so
// both outputs surface the same metric values, log lines, and trace rows
// even though presentation differs. Visualization blocks are drawn from
// the pre-scaled values stored in the block, never rescaled here.
package render
