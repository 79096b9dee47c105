package k8s

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func TestClassify(t *testing.T) {
	podsResource := schema.GroupResource{Resource: "pods"}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "not found",
			err:  apierrors.NewNotFound(podsResource, "api-1"),
			want: ErrKindNotFound,
		},
		{
			name: "forbidden",
			err:  apierrors.NewForbidden(podsResource, "api-1", errors.New("RBAC denied")),
			want: ErrKindForbidden,
		},
		{
			name: "unauthorized",
			err:  apierrors.NewUnauthorized("token expired"),
			want: ErrKindForbidden,
		},
		{
			name: "server timeout",
			err:  apierrors.NewServerTimeout(podsResource, "list", 1),
			want: ErrKindTimeout,
		},
		{
			name: "client deadline",
			err:  context.DeadlineExceeded,
			want: ErrKindTimeout,
		},
		{
			name: "wrapped deadline",
			err:  fmt.Errorf("list pods: %w", context.DeadlineExceeded),
			want: ErrKindTimeout,
		},
		{
			name: "caller cancellation",
			err:  fmt.Errorf("list pods: %w", context.Canceled),
			want: ErrKindTimeout,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 127.0.0.1:6443: connection refused"),
			want: ErrKindUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError("list pods", nil))

	underlying := apierrors.NewNotFound(schema.GroupResource{Resource: "pods"}, "gone")
	err := wrapError("get pod", underlying)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, ErrKindNotFound, gwErr.Kind)
	assert.Equal(t, "get pod", gwErr.Op)
	assert.ErrorIs(t, err, underlying)
}

func TestGatewayErrorDetail(t *testing.T) {
	gwErr := &GatewayError{Kind: ErrKindForbidden, Op: "list pods", Err: errors.New("forbidden: RBAC")}
	assert.Equal(t, "forbidden: RBAC", gwErr.Detail())
	assert.Equal(t, "list pods: forbidden: forbidden: RBAC", gwErr.Error())

	empty := &GatewayError{Kind: ErrKindUnavailable, Op: "list pods"}
	assert.Equal(t, "unavailable", empty.Detail())
}
