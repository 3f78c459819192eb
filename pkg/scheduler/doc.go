// Package scheduler drives the periodic generation loop.
//
// A single ticker fires at a fixed interval and a state machine ensures
// at most one cycle runs at a time: Idle -> Running -> (Completed |
// Failed) -> Idle. A tick that arrives while a cycle is still running is
// recorded as missed and skipped, never queued, so a slow cycle cannot
// build a backlog. Stopping waits for the in-flight cycle up to a drain
// timeout.
package scheduler
