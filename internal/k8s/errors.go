package k8s

import (
	"context"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ErrorKind classifies a gateway failure. The set is closed; the dispatch
// core maps it 1:1 onto its own error taxonomy.
type ErrorKind string

const (
	// ErrKindNotFound marks a named resource that does not exist.
	ErrKindNotFound ErrorKind = "not_found"

	// ErrKindForbidden marks an authorization or authentication failure
	// from the API server.
	ErrKindForbidden ErrorKind = "forbidden"

	// ErrKindTimeout marks an abandoned call: a deadline expiry on either
	// side, or a cancellation by the caller.
	ErrKindTimeout ErrorKind = "timeout"

	// ErrKindUnavailable marks connection failures and every otherwise
	// unclassified transport error.
	ErrKindUnavailable ErrorKind = "unavailable"
)

// GatewayError is the normalized error returned by all gateway operations.
// It wraps the underlying API error for logging while exposing a stable
// kind and operation label to callers.
type GatewayError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Detail returns the underlying error message without the op prefix, for
// embedding in user-facing payloads.
func (e *GatewayError) Detail() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

// wrapError classifies err into a GatewayError for the given operation.
// A nil err returns nil.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &GatewayError{Kind: classify(err), Op: op, Err: err}
}

// classify maps an API server or transport error onto the gateway taxonomy.
// Anything unrecognized is treated as an unavailable upstream.
func classify(err error) ErrorKind {
	switch {
	case apierrors.IsNotFound(err):
		return ErrKindNotFound
	case apierrors.IsForbidden(err), apierrors.IsUnauthorized(err):
		return ErrKindForbidden
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		apierrors.IsTimeout(err),
		apierrors.IsServerTimeout(err):
		return ErrKindTimeout
	default:
		return ErrKindUnavailable
	}
}
