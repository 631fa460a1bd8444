// Package progress keeps aggregated exchange counters (total, completed,
// failed, in flight) for a single route. Trackers are safe for concurrent
// use; readers take value snapshots.
package progress
