package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/k8s-slack-bridge/internal/bridge"
	"github.com/giantswarm/k8s-slack-bridge/internal/server"
)

// registerClusterResources exposes cluster state under the k8s:// URI
// scheme. A pod resource reads as its recent log output (or a status
// report when the pod is not running); a deployment resource reads as the
// deployment list of its namespace. Reads go through the dispatcher like
// every other command.
func registerClusterResources(s *mcpserver.MCPServer, sc *server.ServerContext) {
	s.AddResourceTemplate(mcp.NewResourceTemplate(
		"k8s://pods/{namespace}/{name}",
		"Pod logs",
		mcp.WithTemplateDescription("Log output of a pod, or its status report when it is not running"),
		mcp.WithTemplateMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return readPodResource(ctx, request, sc)
	})

	s.AddResourceTemplate(mcp.NewResourceTemplate(
		"k8s://deployments/{namespace}/{name}",
		"Deployment state",
		mcp.WithTemplateDescription("Replica state of the deployments in the named deployment's namespace"),
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return readDeploymentResource(ctx, request, sc)
	})
}

func readPodResource(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	namespace, name, err := parseResourceURI(request.Params.URI, "pods")
	if err != nil {
		return nil, err
	}

	result, derr := sc.Dispatcher().Execute(ctx, bridge.Command{
		Name: bridge.CmdGetPodLogs,
		Params: map[string]string{
			bridge.ParamNamespace: namespace,
			bridge.ParamPodName:   name,
		},
		Source: bridge.SourceMCP,
	})
	if derr != nil {
		return nil, fmt.Errorf("failed to read %s: %s", request.Params.URI, derr.Detail)
	}

	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      request.Params.URI,
		MIMEType: "text/plain",
		Text:     result.Logs,
	}}, nil
}

func readDeploymentResource(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	namespace, _, err := parseResourceURI(request.Params.URI, "deployments")
	if err != nil {
		return nil, err
	}

	result, derr := sc.Dispatcher().Execute(ctx, bridge.Command{
		Name:   bridge.CmdListDeployments,
		Params: map[string]string{bridge.ParamNamespace: namespace},
		Source: bridge.SourceMCP,
	})
	if derr != nil {
		return nil, fmt.Errorf("failed to read %s: %s", request.Params.URI, derr.Detail)
	}

	raw, err := json.Marshal(result.Deployments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deployments for %s: %w", request.Params.URI, err)
	}
	return []mcp.ResourceContents{mcp.TextResourceContents{
		URI:      request.Params.URI,
		MIMEType: "application/json",
		Text:     string(raw),
	}}, nil
}

// parseResourceURI splits a k8s://<type>/<namespace>/<name> URI, checking
// the scheme and that the resource type matches the handling template.
func parseResourceURI(uri, wantType string) (namespace, name string, err error) {
	rest, ok := strings.CutPrefix(uri, "k8s://")
	if !ok {
		return "", "", fmt.Errorf("unsupported resource URI scheme in %q", uri)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("invalid resource URI %q, want k8s://<type>/<namespace>/<name>", uri)
	}
	if parts[0] != wantType {
		return "", "", fmt.Errorf("unsupported resource type %q in %q", parts[0], uri)
	}
	return parts[1], parts[2], nil
}
