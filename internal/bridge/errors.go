package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/giantswarm/k8s-slack-bridge/internal/k8s"
)

// ErrorKind classifies a dispatch failure. The set is closed; adapters
// render it verbatim in their error payloads.
type ErrorKind string

const (
	// ErrValidation marks bad or missing input. The cluster is never
	// contacted for a command that fails validation.
	ErrValidation ErrorKind = "ValidationError"

	// ErrNotFound marks an unknown command name or an absent named resource.
	ErrNotFound ErrorKind = "NotFound"

	// ErrPermissionDenied marks an authorization failure from the cluster.
	ErrPermissionDenied ErrorKind = "PermissionDenied"

	// ErrUpstreamUnavailable marks a network, connection or otherwise
	// unclassified transport failure.
	ErrUpstreamUnavailable ErrorKind = "UpstreamUnavailable"

	// ErrTimeout marks an abandoned call: a deadline expiry or a caller
	// cancellation. The call is never silently retried.
	ErrTimeout ErrorKind = "Timeout"
)

// DispatchError is the terminal error for a single command. It carries no
// retry state.
type DispatchError struct {
	Kind   ErrorKind
	Detail string
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// NewDispatchError builds a DispatchError with a formatted detail message.
func NewDispatchError(kind ErrorKind, format string, args ...any) *DispatchError {
	return &DispatchError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// fromGatewayError converts an error returned by the cluster gateway into a
// DispatchError. The gateway already normalizes API server failures into a
// closed kind set; anything else is treated as an unavailable upstream.
func fromGatewayError(err error) *DispatchError {
	var gwErr *k8s.GatewayError
	if errors.As(err, &gwErr) {
		return &DispatchError{Kind: gatewayKind(gwErr.Kind), Detail: gwErr.Detail()}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &DispatchError{Kind: ErrTimeout, Detail: "cluster request deadline exceeded"}
	}
	if errors.Is(err, context.Canceled) {
		return &DispatchError{Kind: ErrTimeout, Detail: "cluster request canceled"}
	}
	return &DispatchError{Kind: ErrUpstreamUnavailable, Detail: err.Error()}
}

// gatewayKind maps the gateway's error taxonomy onto the dispatch taxonomy.
func gatewayKind(kind k8s.ErrorKind) ErrorKind {
	switch kind {
	case k8s.ErrKindNotFound:
		return ErrNotFound
	case k8s.ErrKindForbidden:
		return ErrPermissionDenied
	case k8s.ErrKindTimeout:
		return ErrTimeout
	default:
		return ErrUpstreamUnavailable
	}
}

// fromNotifyError converts an error from the Slack notifier into a
// DispatchError. Slack client failures are transport failures from the
// dispatcher's point of view; an expired or canceled call is not Slack's
// fault and keeps its own kind.
func fromNotifyError(err error) *DispatchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &DispatchError{Kind: ErrTimeout, Detail: "slack request deadline exceeded"}
	}
	if errors.Is(err, context.Canceled) {
		return &DispatchError{Kind: ErrTimeout, Detail: "slack request canceled"}
	}
	return &DispatchError{Kind: ErrUpstreamUnavailable, Detail: fmt.Sprintf("slack delivery failed: %v", err)}
}
