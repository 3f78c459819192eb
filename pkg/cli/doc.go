// Package cli wires the portfolio commands: run (daemon), generate
// (one-shot cycle), and render (template preview).
package cli
