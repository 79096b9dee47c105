// Package bridge implements the command dispatch core shared by all inbound
// adapters.
//
// Adapters (the MCP server and the Slack slash-command listener) translate
// their wire formats into a common Command envelope. The Dispatcher validates
// the envelope against a static command registry, executes the matching
// cluster read operation or Slack notification, and returns either a Result
// or a DispatchError. Transport errors from collaborators never escape the
// dispatcher; they are normalized into the DispatchError taxonomy at the
// call site.
//
// The Registry is populated once at startup and is read-only afterwards, so
// the Dispatcher is safe for concurrent use by multiple adapters.
package bridge
