package bridge

// Source identifies the inbound adapter that produced a Command. The
// formatter uses it to choose between the MCP JSON shape and Slack message
// text.
type Source string

const (
	// SourceMCP marks commands originating from the MCP server.
	SourceMCP Source = "mcp"

	// SourceSlack marks commands originating from a Slack slash command.
	SourceSlack Source = "slack"
)

// Command is the envelope consumed by the Dispatcher. It is constructed by
// an inbound adapter, consumed exactly once and never persisted.
type Command struct {
	Name   string
	Params map[string]string
	Source Source
}

// Param returns the named parameter, or the empty string when absent.
func (c Command) Param(name string) string {
	return c.Params[name]
}

// ParamOr returns the named parameter, falling back to def when the
// parameter is absent or empty.
func (c Command) ParamOr(name, def string) string {
	if v := c.Params[name]; v != "" {
		return v
	}
	return def
}

// Built-in command names understood by the Dispatcher.
const (
	CmdListPods        = "list_pods"
	CmdListDeployments = "list_deployments"
	CmdGetPodLogs      = "get_pod_logs"
	CmdNotifySlack     = "notify_slack"
	CmdClusterInfo     = "cluster_info"
)

// Parameter names shared between the adapters and the Dispatcher.
const (
	ParamNamespace = "namespace"
	ParamPodName   = "pod_name"
	ParamTailLines = "tail_lines"
	ParamChannel   = "channel"
	ParamMessage   = "message"
)
