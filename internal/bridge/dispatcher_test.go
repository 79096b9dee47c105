package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/k8s-slack-bridge/internal/k8s"
)

// fakeGateway records calls and returns canned data or a canned error.
type fakeGateway struct {
	pods        []k8s.PodSummary
	deployments []k8s.DeploymentSummary
	logs        string
	info        k8s.ClusterInfo
	err         error

	calls      int
	namespaces []string
	podName    string
	tailLines  int64
}

func (f *fakeGateway) ListPods(ctx context.Context, namespace string) ([]k8s.PodSummary, error) {
	f.calls++
	f.namespaces = append(f.namespaces, namespace)
	if f.err != nil {
		return nil, f.err
	}
	return f.pods, nil
}

func (f *fakeGateway) ListDeployments(ctx context.Context, namespace string) ([]k8s.DeploymentSummary, error) {
	f.calls++
	f.namespaces = append(f.namespaces, namespace)
	if f.err != nil {
		return nil, f.err
	}
	return f.deployments, nil
}

func (f *fakeGateway) GetPodLogs(ctx context.Context, namespace, podName string, tailLines int64) (string, error) {
	f.calls++
	f.namespaces = append(f.namespaces, namespace)
	f.podName = podName
	f.tailLines = tailLines
	if f.err != nil {
		return "", f.err
	}
	return f.logs, nil
}

func (f *fakeGateway) ClusterInfo(ctx context.Context) (k8s.ClusterInfo, error) {
	f.calls++
	if f.err != nil {
		return k8s.ClusterInfo{}, f.err
	}
	return f.info, nil
}

// fakeNotifier records posted messages and optionally fails.
type fakeNotifier struct {
	err      error
	calls    int
	channel  string
	messages []string
}

func (f *fakeNotifier) PostMessage(ctx context.Context, channel, text string) error {
	f.calls++
	f.channel = channel
	f.messages = append(f.messages, text)
	return f.err
}

func newTestDispatcher(gw *fakeGateway, notifier Notifier) *Dispatcher {
	return NewDispatcher(DispatcherConfig{
		Gateway:          gw,
		Notifier:         notifier,
		DefaultNamespace: "default",
		DefaultTailLines: 100,
	})
}

func TestExecuteUnknownCommand(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw, nil)

	_, derr := d.Execute(context.Background(), Command{Name: "drain_node", Source: SourceMCP})

	require.NotNil(t, derr)
	assert.Equal(t, ErrNotFound, derr.Kind)
	assert.Contains(t, derr.Detail, "drain_node")
	assert.Zero(t, gw.calls, "gateway must not be contacted for unknown commands")
}

func TestExecuteValidationFailureSkipsGateway(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw, nil)

	_, derr := d.Execute(context.Background(), Command{Name: CmdGetPodLogs, Source: SourceSlack})

	require.NotNil(t, derr)
	assert.Equal(t, ErrValidation, derr.Kind)
	assert.Zero(t, gw.calls, "gateway must not be contacted for invalid commands")
}

func TestExecuteListPods(t *testing.T) {
	gw := &fakeGateway{pods: []k8s.PodSummary{
		{Name: "api-1", Namespace: "prod", Status: "Running"},
		{Name: "api-2", Namespace: "prod", Status: "Pending"},
	}}
	d := newTestDispatcher(gw, nil)

	result, derr := d.Execute(context.Background(), Command{
		Name:   CmdListPods,
		Params: map[string]string{ParamNamespace: "prod"},
		Source: SourceMCP,
	})

	require.Nil(t, derr)
	assert.Equal(t, ResultPodList, result.Kind)
	assert.Len(t, result.Pods, 2)
	assert.Equal(t, []string{"prod"}, gw.namespaces)
}

func TestExecuteListPodsDefaultNamespace(t *testing.T) {
	gw := &fakeGateway{}
	d := NewDispatcher(DispatcherConfig{Gateway: gw, DefaultNamespace: "staging"})

	result, derr := d.Execute(context.Background(), Command{Name: CmdListPods, Source: SourceMCP})

	require.Nil(t, derr)
	assert.Equal(t, ResultPodList, result.Kind)
	assert.Equal(t, []string{"staging"}, gw.namespaces)
}

func TestExecuteListPodsEmptyNamespaceIsSuccess(t *testing.T) {
	gw := &fakeGateway{pods: []k8s.PodSummary{}}
	d := newTestDispatcher(gw, nil)

	result, derr := d.Execute(context.Background(), Command{Name: CmdListPods, Source: SourceMCP})

	require.Nil(t, derr)
	assert.Equal(t, ResultPodList, result.Kind)
	assert.Empty(t, result.Pods)
}

func TestExecuteListDeployments(t *testing.T) {
	gw := &fakeGateway{deployments: []k8s.DeploymentSummary{
		{Name: "api", Namespace: "prod", ReplicasReady: 2, ReplicasDesired: 3},
	}}
	d := newTestDispatcher(gw, nil)

	result, derr := d.Execute(context.Background(), Command{Name: CmdListDeployments, Source: SourceSlack})

	require.Nil(t, derr)
	assert.Equal(t, ResultDeploymentList, result.Kind)
	require.Len(t, result.Deployments, 1)
	assert.Equal(t, int32(2), result.Deployments[0].ReplicasReady)
}

func TestExecuteGetPodLogs(t *testing.T) {
	gw := &fakeGateway{logs: "line one\nline two\n"}
	d := newTestDispatcher(gw, nil)

	result, derr := d.Execute(context.Background(), Command{
		Name: CmdGetPodLogs,
		Params: map[string]string{
			ParamPodName:   "api-1",
			ParamNamespace: "prod",
			ParamTailLines: "50",
		},
		Source: SourceMCP,
	})

	require.Nil(t, derr)
	assert.Equal(t, ResultLogText, result.Kind)
	assert.Equal(t, "line one\nline two\n", result.Logs)
	assert.Equal(t, "api-1", gw.podName)
	assert.Equal(t, int64(50), gw.tailLines)
}

func TestExecuteGetPodLogsDefaultTail(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw, nil)

	_, derr := d.Execute(context.Background(), Command{
		Name:   CmdGetPodLogs,
		Params: map[string]string{ParamPodName: "api-1"},
		Source: SourceMCP,
	})

	require.Nil(t, derr)
	assert.Equal(t, int64(100), gw.tailLines)
}

func TestExecuteGetPodLogsRejectsBadTail(t *testing.T) {
	for _, raw := range []string{"abc", "-5", "0", "1.5"} {
		t.Run(raw, func(t *testing.T) {
			gw := &fakeGateway{}
			d := newTestDispatcher(gw, nil)

			_, derr := d.Execute(context.Background(), Command{
				Name: CmdGetPodLogs,
				Params: map[string]string{
					ParamPodName:   "api-1",
					ParamTailLines: raw,
				},
				Source: SourceMCP,
			})

			require.NotNil(t, derr)
			assert.Equal(t, ErrValidation, derr.Kind)
			assert.Contains(t, derr.Detail, raw)
			assert.Zero(t, gw.calls)
		})
	}
}

func TestExecuteMapsGatewayErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind ErrorKind
	}{
		{
			name:     "not found",
			err:      &k8s.GatewayError{Kind: k8s.ErrKindNotFound, Op: "get pod", Err: errors.New(`pods "gone" not found`)},
			wantKind: ErrNotFound,
		},
		{
			name:     "forbidden",
			err:      &k8s.GatewayError{Kind: k8s.ErrKindForbidden, Op: "list pods", Err: errors.New("forbidden")},
			wantKind: ErrPermissionDenied,
		},
		{
			name:     "timeout",
			err:      &k8s.GatewayError{Kind: k8s.ErrKindTimeout, Op: "list pods", Err: context.DeadlineExceeded},
			wantKind: ErrTimeout,
		},
		{
			name:     "unavailable",
			err:      &k8s.GatewayError{Kind: k8s.ErrKindUnavailable, Op: "list pods", Err: errors.New("connection refused")},
			wantKind: ErrUpstreamUnavailable,
		},
		{
			name:     "bare deadline",
			err:      context.DeadlineExceeded,
			wantKind: ErrTimeout,
		},
		{
			name:     "bare cancellation",
			err:      context.Canceled,
			wantKind: ErrTimeout,
		},
		{
			name:     "unwrapped error",
			err:      errors.New("dial tcp: connection refused"),
			wantKind: ErrUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{err: tt.err}
			d := newTestDispatcher(gw, nil)

			_, derr := d.Execute(context.Background(), Command{Name: CmdListPods, Source: SourceMCP})

			require.NotNil(t, derr)
			assert.Equal(t, tt.wantKind, derr.Kind)
		})
	}
}

func TestExecuteClusterInfo(t *testing.T) {
	gw := &fakeGateway{info: k8s.ClusterInfo{
		Context:       "kind-dev",
		Cluster:       "kind-dev",
		Namespace:     "default",
		ServerVersion: "v1.34.0",
	}}
	d := newTestDispatcher(gw, nil)

	result, derr := d.Execute(context.Background(), Command{Name: CmdClusterInfo, Source: SourceSlack})

	require.Nil(t, derr)
	assert.Equal(t, ResultClusterInfo, result.Kind)
	assert.Equal(t, "kind-dev", result.Cluster.Context)
	assert.Equal(t, "v1.34.0", result.Cluster.ServerVersion)
	assert.Equal(t, 1, gw.calls)
}

func TestExecuteClusterInfoUnreachable(t *testing.T) {
	gw := &fakeGateway{err: &k8s.GatewayError{
		Kind: k8s.ErrKindUnavailable,
		Op:   "cluster info",
		Err:  errors.New("connection refused"),
	}}
	d := newTestDispatcher(gw, nil)

	_, derr := d.Execute(context.Background(), Command{Name: CmdClusterInfo, Source: SourceSlack})

	require.NotNil(t, derr)
	assert.Equal(t, ErrUpstreamUnavailable, derr.Kind)
}

func TestExecuteNotifySlack(t *testing.T) {
	notifier := &fakeNotifier{}
	d := newTestDispatcher(&fakeGateway{}, notifier)

	result, derr := d.Execute(context.Background(), Command{
		Name: CmdNotifySlack,
		Params: map[string]string{
			ParamChannel: "#ops",
			ParamMessage: "rollout complete",
		},
		Source: SourceMCP,
	})

	require.Nil(t, derr)
	assert.Equal(t, ResultAck, result.Kind)
	assert.Equal(t, 1, notifier.calls, "exactly one delivery attempt per command")
	assert.Equal(t, "#ops", notifier.channel)
	assert.Equal(t, []string{"rollout complete"}, notifier.messages)
}

func TestExecuteNotifySlackWithoutNotifier(t *testing.T) {
	d := newTestDispatcher(&fakeGateway{}, nil)

	_, derr := d.Execute(context.Background(), Command{
		Name: CmdNotifySlack,
		Params: map[string]string{
			ParamChannel: "#ops",
			ParamMessage: "hello",
		},
		Source: SourceMCP,
	})

	require.NotNil(t, derr)
	assert.Equal(t, ErrUpstreamUnavailable, derr.Kind)
}

func TestExecuteNotifySlackDeliveryFailure(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("channel_not_found")}
	d := newTestDispatcher(&fakeGateway{}, notifier)

	_, derr := d.Execute(context.Background(), Command{
		Name: CmdNotifySlack,
		Params: map[string]string{
			ParamChannel: "#gone",
			ParamMessage: "hello",
		},
		Source: SourceMCP,
	})

	require.NotNil(t, derr)
	assert.Equal(t, ErrUpstreamUnavailable, derr.Kind)
	assert.Equal(t, 1, notifier.calls, "failed deliveries are not retried")
}

func TestExecuteAppliesCommandTimeout(t *testing.T) {
	gw := &fakeGateway{}
	deadlineSeen := make(chan bool, 1)
	d := NewDispatcher(DispatcherConfig{
		Gateway:        &deadlineGateway{inner: gw, seen: deadlineSeen},
		CommandTimeout: 5 * time.Second,
	})

	_, derr := d.Execute(context.Background(), Command{Name: CmdListPods, Source: SourceMCP})

	require.Nil(t, derr)
	assert.True(t, <-deadlineSeen, "gateway context must carry the command deadline")
}

// deadlineGateway reports whether the context it receives has a deadline.
type deadlineGateway struct {
	inner *fakeGateway
	seen  chan bool
}

func (d *deadlineGateway) ListPods(ctx context.Context, namespace string) ([]k8s.PodSummary, error) {
	_, ok := ctx.Deadline()
	d.seen <- ok
	return d.inner.ListPods(ctx, namespace)
}

func (d *deadlineGateway) ListDeployments(ctx context.Context, namespace string) ([]k8s.DeploymentSummary, error) {
	return d.inner.ListDeployments(ctx, namespace)
}

func (d *deadlineGateway) GetPodLogs(ctx context.Context, namespace, podName string, tailLines int64) (string, error) {
	return d.inner.GetPodLogs(ctx, namespace, podName, tailLines)
}

func (d *deadlineGateway) ClusterInfo(ctx context.Context) (k8s.ClusterInfo, error) {
	return d.inner.ClusterInfo(ctx)
}
