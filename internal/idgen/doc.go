// Package idgen generates identifiers for process instances, executions,
// tasks and exchanges. Callers treat identifiers as opaque strings.
package idgen
