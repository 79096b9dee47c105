package logging

import (
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyCommand   = "command"
	KeySource    = "source"
	KeyNamespace = "namespace"
	KeyPod       = "pod"
	KeyChannel   = "channel"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyDuration  = "duration"
)

// NewLogger builds a slog.Logger writing to stderr. Format is "json" or
// "text"; level is one of debug, info, warn, error. Unknown values fall
// back to info-level JSON, matching the server defaults.
func NewLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Operation returns a slog attribute for the gateway operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Command returns a slog attribute for the dispatched command name.
func Command(name string) slog.Attr {
	return slog.String(KeyCommand, name)
}

// CommandSource returns a slog attribute for the inbound adapter.
func CommandSource(source string) slog.Attr {
	return slog.String(KeySource, source)
}

// Namespace returns a slog attribute for the namespace.
func Namespace(ns string) slog.Attr {
	return slog.String(KeyNamespace, ns)
}

// Pod returns a slog attribute for the pod name.
func Pod(name string) slog.Attr {
	return slog.String(KeyPod, name)
}

// Channel returns a slog attribute for the Slack channel.
func Channel(name string) slog.Attr {
	return slog.String(KeyChannel, name)
}

// Status returns a slog attribute for an outcome label.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Duration returns a slog attribute for an elapsed time.
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizedErr returns a slog attribute for an error with IP addresses
// redacted. Use it for errors that may embed API server addresses from
// cluster responses.
func SanitizedErr(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, SanitizeHost(err.Error()))
}

// ipv4Regex matches IPv4 addresses for sanitization.
var ipv4Regex = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

// ipv6Regex matches common IPv6 forms, including the bracketed form used
// in URLs.
var ipv6Regex = regexp.MustCompile(`\[?([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}\]?`)

// SanitizeHost redacts IPv4 and IPv6 addresses in s, keeping hostnames and
// ports intact so error strings stay debuggable without leaking network
// topology.
func SanitizeHost(s string) string {
	if s == "" {
		return "<empty>"
	}
	out := ipv4Regex.ReplaceAllString(s, "<redacted-ip>")
	return ipv6Regex.ReplaceAllString(out, "<redacted-ip>")
}
