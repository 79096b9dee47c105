// Package cmd provides the command-line interface for k8s-slack-bridge.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the bridge server (default behavior when no subcommand is provided)
//   - version: Displays the application version
//
// Command Structure:
//
//	k8s-slack-bridge [flags]                 # Starts the bridge server (default)
//	k8s-slack-bridge serve [flags]           # Explicitly starts the bridge server
//	k8s-slack-bridge version                 # Shows version information
//	k8s-slack-bridge help [command]          # Shows help information
//
// The serve command supports two transport options:
//   - stdio: Standard input/output (default) - for MCP command-line integration
//   - streamable-http: Streamable HTTP transport - carries the MCP endpoint,
//     the Slack slash command endpoint, health probes and Prometheus metrics
//
// Transport Configuration Examples:
//
//	k8s-slack-bridge serve --transport stdio
//	k8s-slack-bridge serve --transport streamable-http --http-addr :8080 --http-endpoint /mcp
//
// The serve command also supports configuration flags for the default
// namespace, per-command timeout, log tail default, Slack text budget and
// Kubernetes API rate limiting.
package cmd
