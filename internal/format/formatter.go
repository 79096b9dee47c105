package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/giantswarm/k8s-slack-bridge/internal/bridge"
	"github.com/giantswarm/k8s-slack-bridge/internal/k8s"
)

// DefaultSlackTextLimit bounds Slack log rendering. Slack rejects messages
// past roughly this size, so overflow is cut and annotated rather than
// dropped.
const DefaultSlackTextLimit = 3000

// Envelope is the MCP JSON response shape.
type Envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  *ErrorPayload   `json:"error,omitempty"`
}

// ErrorPayload is the structured error carried in a failed MCP response.
type ErrorPayload struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Render renders a successful result for the adapter that issued the
// command: MCP JSON for SourceMCP, message text for SourceSlack.
func Render(result bridge.Result, source bridge.Source, textLimit int) (string, error) {
	if source == bridge.SourceSlack {
		return Slack(result, textLimit), nil
	}
	return MCP(result)
}

// RenderError renders a dispatch error for the adapter that issued the
// command.
func RenderError(derr *bridge.DispatchError, source bridge.Source) string {
	if source == bridge.SourceSlack {
		return SlackError(derr)
	}
	return MCPError(derr)
}

// MCP renders a successful result as the MCP JSON envelope:
// {"status":"ok","data":...} with the data shape following the result
// variant (array for lists, string for logs and acks).
func MCP(result bridge.Result) (string, error) {
	var data any
	switch result.Kind {
	case bridge.ResultPodList:
		data = result.Pods
	case bridge.ResultDeploymentList:
		data = result.Deployments
	case bridge.ResultLogText:
		data = result.Logs
	case bridge.ResultAck:
		data = "ok"
	case bridge.ResultClusterInfo:
		data = result.Cluster
	default:
		return "", fmt.Errorf("unknown result kind %q", result.Kind)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result data: %w", err)
	}
	out, err := json.Marshal(Envelope{Status: "ok", Data: raw})
	if err != nil {
		return "", fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return string(out), nil
}

// MCPError renders a dispatch error as the MCP JSON envelope:
// {"status":"error","error":{"kind":...,"detail":...}}.
func MCPError(derr *bridge.DispatchError) string {
	out, err := json.Marshal(Envelope{
		Status: "error",
		Error:  &ErrorPayload{Kind: string(derr.Kind), Detail: derr.Detail},
	})
	if err != nil {
		// The envelope contains only strings; marshalling cannot fail.
		return `{"status":"error","error":{"kind":"UpstreamUnavailable","detail":"failed to encode error"}}`
	}
	return string(out)
}

// Slack renders a successful result as Slack message text. textLimit
// bounds log output; values <= 0 use DefaultSlackTextLimit.
func Slack(result bridge.Result, textLimit int) string {
	if textLimit <= 0 {
		textLimit = DefaultSlackTextLimit
	}
	switch result.Kind {
	case bridge.ResultPodList:
		return slackPods(result.Pods)
	case bridge.ResultDeploymentList:
		return slackDeployments(result.Deployments)
	case bridge.ResultLogText:
		return slackLogs(result.Logs, textLimit)
	case bridge.ResultAck:
		return "Message delivered."
	case bridge.ResultClusterInfo:
		return slackClusterInfo(result.Cluster)
	default:
		return "Done."
	}
}

// SlackError renders a dispatch error as a single short line. The detail
// is included verbatim; stack traces and transport internals never reach
// the detail field in the first place.
func SlackError(derr *bridge.DispatchError) string {
	return fmt.Sprintf("Sorry, that didn't work: %s", derr.Detail)
}

func slackPods(pods []k8s.PodSummary) string {
	if len(pods) == 0 {
		return "No pods found."
	}
	var b strings.Builder
	for i, p := range pods {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s | %s | %s", podEmoji(p.Status), p.Name, p.Namespace, p.Status)
	}
	return b.String()
}

func slackDeployments(deployments []k8s.DeploymentSummary) string {
	if len(deployments) == 0 {
		return "No deployments found."
	}
	var b strings.Builder
	for i, d := range deployments {
		if i > 0 {
			b.WriteString("\n")
		}
		emoji := ":large_green_circle:"
		if d.ReplicasReady < d.ReplicasDesired {
			emoji = ":large_yellow_circle:"
		}
		fmt.Fprintf(&b, "%s %s | %s | %d/%d ready", emoji, d.Name, d.Namespace, d.ReplicasReady, d.ReplicasDesired)
	}
	return b.String()
}

// slackLogs fences log text and truncates at the character budget. The cut
// is always announced; overflow is never dropped silently. The cut point
// backs up to a rune boundary so the output stays valid UTF-8.
func slackLogs(logs string, textLimit int) string {
	if logs == "" {
		return "No log output."
	}
	if len(logs) <= textLimit {
		return fmt.Sprintf("```\n%s\n```", logs)
	}
	cut := textLimit
	for cut > 0 && !utf8.RuneStart(logs[cut]) {
		cut--
	}
	dropped := len(logs) - cut
	return fmt.Sprintf("```\n%s\n```\n(truncated, %d more bytes)", logs[:cut], dropped)
}

func slackClusterInfo(info k8s.ClusterInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Context: %s\n", info.Context)
	fmt.Fprintf(&b, "Cluster: %s\n", info.Cluster)
	fmt.Fprintf(&b, "Default namespace: %s", info.Namespace)
	if info.ServerVersion != "" {
		fmt.Fprintf(&b, "\nServer version: %s", info.ServerVersion)
	}
	return b.String()
}

func podEmoji(status string) string {
	switch status {
	case "Running", "Succeeded":
		return ":large_green_circle:"
	case "Failed":
		return ":red_circle:"
	default:
		return ":large_yellow_circle:"
	}
}
