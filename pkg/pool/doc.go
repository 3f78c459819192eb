// Package pool provides the bounded worker pool that executes generation
// tasks.
//
// A fixed number of workers drain a bounded queue. Submission is
// non-blocking: when the queue is full, Submit returns an error instead of
// blocking the caller. Every task carries a cycle ID and a deadline;
// tasks from superseded cycles are discarded at dequeue time so stale
// work is never executed, and a task exceeding its deadline fails with
// ErrCodeTimeout rather than running on.
//
// Stop drains in-flight work up to a timeout and reports how many tasks
// were abandoned.
package pool
