// Package format renders dispatch results for the two outbound channels.
//
// MCP callers get a JSON envelope with a status field and either a data
// payload or a structured error. Slack callers get human-readable message
// text: one line per listed item, fenced and truncated log blocks, and a
// short non-technical line for errors.
//
// All functions are pure: identical inputs produce byte-identical output.
package format
