// Package processor drives process instances through their definitions.
//
// An operation (start, trigger, task completion) runs synchronously on the
// caller's goroutine until every execution reaches a wait state or ends.
// Activities marked async are handed to a queue consumed by a worker pool,
// which resumes them with retries.
package processor
