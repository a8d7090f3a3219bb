// Package observability provides structured logging and OpenTelemetry tracing
// for ktree builds.
package observability
