package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/k8s-slack-bridge/internal/k8s"
)

func resourceRequest(uri string) mcp.ReadResourceRequest {
	request := mcp.ReadResourceRequest{}
	request.Params.URI = uri
	return request
}

func textContents(t *testing.T, contents []mcp.ResourceContents) mcp.TextResourceContents {
	t.Helper()
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	return text
}

func TestReadPodResource(t *testing.T) {
	gw := &fakeGateway{logs: "log line\n"}
	sc := newTestServerContext(t, gw)

	contents, err := readPodResource(context.Background(),
		resourceRequest("k8s://pods/prod/api-1"), sc)

	require.NoError(t, err)
	text := textContents(t, contents)
	assert.Equal(t, "k8s://pods/prod/api-1", text.URI)
	assert.Equal(t, "text/plain", text.MIMEType)
	assert.Equal(t, "log line\n", text.Text)
	assert.Equal(t, "prod", gw.namespace)
	assert.Equal(t, "api-1", gw.podName)
}

func TestReadPodResourceAbsentPod(t *testing.T) {
	gw := &fakeGateway{err: &k8s.GatewayError{
		Kind: k8s.ErrKindNotFound,
		Op:   "get pod",
		Err:  assert.AnError,
	}}
	sc := newTestServerContext(t, gw)

	_, err := readPodResource(context.Background(),
		resourceRequest("k8s://pods/prod/gone"), sc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "k8s://pods/prod/gone")
}

func TestReadDeploymentResource(t *testing.T) {
	gw := &fakeGateway{deployments: []k8s.DeploymentSummary{
		{Name: "api", Namespace: "prod", ReplicasReady: 3, ReplicasDesired: 3, Age: "2d"},
	}}
	sc := newTestServerContext(t, gw)

	contents, err := readDeploymentResource(context.Background(),
		resourceRequest("k8s://deployments/prod/api"), sc)

	require.NoError(t, err)
	text := textContents(t, contents)
	assert.Equal(t, "application/json", text.MIMEType)
	assert.JSONEq(t, `[
		{"name":"api","namespace":"prod","replicas_ready":3,"replicas_desired":3,"age":"2d"}
	]`, text.Text)
	assert.Equal(t, "prod", gw.namespace)
}

func TestParseResourceURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr string
	}{
		{name: "valid", uri: "k8s://pods/prod/api-1"},
		{name: "wrong scheme", uri: "http://pods/prod/api-1", wantErr: "scheme"},
		{name: "missing name", uri: "k8s://pods/prod", wantErr: "invalid resource URI"},
		{name: "empty segment", uri: "k8s://pods//api-1", wantErr: "invalid resource URI"},
		{name: "too many segments", uri: "k8s://pods/prod/api-1/logs", wantErr: "invalid resource URI"},
		{name: "wrong type", uri: "k8s://secrets/prod/api-1", wantErr: `resource type "secrets"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			namespace, name, err := parseResourceURI(tt.uri, "pods")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "prod", namespace)
			assert.Equal(t, "api-1", name)
		})
	}
}
