// Package server wires the bridge's dependencies together.
//
// ServerContext owns the cluster gateway, the Slack notifier, the command
// dispatcher and the shared configuration. It is constructed once at
// startup through functional options, handed to every adapter, and torn
// down through Shutdown. Health endpoints for Kubernetes probes live here
// as well.
package server
