// Package instrumentation exposes Prometheus metrics for the command
// dispatch core. Collectors are registered against a caller-provided
// registry so tests can use isolated registries.
package instrumentation
