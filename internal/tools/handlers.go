package tools

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/k8s-slack-bridge/internal/bridge"
	"github.com/giantswarm/k8s-slack-bridge/internal/format"
	"github.com/giantswarm/k8s-slack-bridge/internal/server"
)

func handleListPods(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	cmd := commandFromRequest(bridge.CmdListPods, request)
	return dispatch(ctx, sc, cmd)
}

func handleListDeployments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	cmd := commandFromRequest(bridge.CmdListDeployments, request)
	return dispatch(ctx, sc, cmd)
}

func handleGetPodLogs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	cmd := commandFromRequest(bridge.CmdGetPodLogs, request)
	return dispatch(ctx, sc, cmd)
}

func handleNotifySlack(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	cmd := commandFromRequest(bridge.CmdNotifySlack, request)
	return dispatch(ctx, sc, cmd)
}

// dispatch runs the command and renders the JSON envelope. Dispatch
// failures are reported as error results so the client always receives a
// structured payload.
func dispatch(ctx context.Context, sc *server.ServerContext, cmd bridge.Command) (*mcp.CallToolResult, error) {
	result, derr := sc.Dispatcher().Execute(ctx, cmd)
	if derr != nil {
		return mcp.NewToolResultError(format.MCPError(derr)), nil
	}
	text, err := format.MCP(result)
	if err != nil {
		return nil, fmt.Errorf("failed to render result for %s: %w", cmd.Name, err)
	}
	return mcp.NewToolResultText(text), nil
}

// commandFromRequest flattens the tool arguments into the command
// envelope. Whole numbers are rendered without a fraction so the
// dispatcher's integer parsing accepts them; fractional values are kept
// as-is and rejected by validation with a precise message.
func commandFromRequest(name string, request mcp.CallToolRequest) bridge.Command {
	args := request.GetArguments()
	params := make(map[string]string, len(args))
	for key, value := range args {
		switch v := value.(type) {
		case string:
			params[key] = v
		case float64:
			params[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			params[key] = strconv.FormatBool(v)
		default:
			params[key] = fmt.Sprintf("%v", v)
		}
	}
	return bridge.Command{
		Name:   name,
		Params: params,
		Source: bridge.SourceMCP,
	}
}
