// Package tools registers the bridge commands as MCP tools.
//
// Each tool handler translates its MCP arguments into a command envelope,
// hands it to the dispatcher, and returns the MCP JSON envelope as the tool
// result. Dispatch failures become error results, never Go errors, so the
// MCP client always receives a structured payload.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/k8s-slack-bridge/internal/server"
)

// RegisterBridgeTools registers the four command tools together with the
// pod monitoring prompt and the k8s:// resource templates.
func RegisterBridgeTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listPodsTool := mcp.NewTool("list_pods",
		mcp.WithDescription("List all pods in a namespace"),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list pods in (optional, defaults to the configured default namespace)"),
		),
	)
	s.AddTool(listPodsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListPods(ctx, request, sc)
	})

	listDeploymentsTool := mcp.NewTool("list_deployments",
		mcp.WithDescription("List all deployments in a namespace"),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list deployments in (optional, defaults to the configured default namespace)"),
		),
	)
	s.AddTool(listDeploymentsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListDeployments(ctx, request, sc)
	})

	getPodLogsTool := mcp.NewTool("get_pod_logs",
		mcp.WithDescription("Get logs from a specific pod"),
		mcp.WithString("pod_name",
			mcp.Required(),
			mcp.Description("Name of the pod to get logs from"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace where the pod is located (optional)"),
		),
		mcp.WithNumber("tail_lines",
			mcp.Description("Number of lines from the end of the logs to return (optional)"),
		),
	)
	s.AddTool(getPodLogsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetPodLogs(ctx, request, sc)
	})

	notifySlackTool := mcp.NewTool("notify_slack",
		mcp.WithDescription("Send a message to a Slack channel"),
		mcp.WithString("channel",
			mcp.Required(),
			mcp.Description("Channel ID or #name to post to"),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Message text to post"),
		),
	)
	s.AddTool(notifySlackTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleNotifySlack(ctx, request, sc)
	})

	registerMonitorPodsPrompt(s, sc)
	registerClusterResources(s, sc)
	return nil
}
