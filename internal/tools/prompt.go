package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/k8s-slack-bridge/internal/bridge"
	"github.com/giantswarm/k8s-slack-bridge/internal/server"
)

// registerMonitorPodsPrompt registers a prompt that surveys the pods of a
// namespace and asks the model to triage anything unhealthy.
func registerMonitorPodsPrompt(s *mcpserver.MCPServer, sc *server.ServerContext) {
	s.AddPrompt(mcp.NewPrompt("monitor_pods",
		mcp.WithPromptDescription("Survey the pods in a namespace and triage any that are not healthy"),
		mcp.WithArgument("namespace",
			mcp.ArgumentDescription("Namespace to survey (optional, defaults to the configured default namespace)"),
		),
	), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		params := map[string]string{}
		namespace := request.Params.Arguments["namespace"]
		if namespace != "" {
			params[bridge.ParamNamespace] = namespace
		} else {
			namespace = sc.Config().DefaultNamespace
		}

		result, derr := sc.Dispatcher().Execute(ctx, bridge.Command{
			Name:   bridge.CmdListPods,
			Params: params,
			Source: bridge.SourceMCP,
		})
		if derr != nil {
			return nil, fmt.Errorf("failed to list pods in %s: %s", namespace, derr.Detail)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Current pods in namespace %q:\n\n", namespace)
		if len(result.Pods) == 0 {
			b.WriteString("(no pods found)\n")
		}
		for _, p := range result.Pods {
			fmt.Fprintf(&b, "- %s: status=%s restarts=%d age=%s\n",
				p.Name, p.Status, p.RestartCount, p.Age)
		}
		b.WriteString("\nReview the list above. For every pod that is not Running or Succeeded, ")
		b.WriteString("or that shows a high restart count, fetch its logs with the get_pod_logs tool ")
		b.WriteString("and summarize the likely cause. If everything looks healthy, say so briefly.")

		return &mcp.GetPromptResult{
			Description: fmt.Sprintf("Pod health survey for namespace %s", namespace),
			Messages: []mcp.PromptMessage{
				{
					Role:    mcp.RoleUser,
					Content: mcp.TextContent{Type: "text", Text: b.String()},
				},
			},
		}, nil
	})
}
