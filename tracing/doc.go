// Package tracing wraps OpenTelemetry so that the runtime, the bridge and
// the route framework can open spans without importing the SDK directly.
package tracing
