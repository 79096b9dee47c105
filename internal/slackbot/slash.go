package slackbot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/slack-go/slack"

	"github.com/giantswarm/k8s-slack-bridge/internal/bridge"
	"github.com/giantswarm/k8s-slack-bridge/internal/format"
	"github.com/giantswarm/k8s-slack-bridge/internal/logging"
)

// Dispatcher is the slice of the dispatch core the slash handler needs.
type Dispatcher interface {
	Execute(ctx context.Context, cmd bridge.Command) (bridge.Result, *bridge.DispatchError)
}

// SlashHandler translates Slack slash commands into command envelopes and
// renders the dispatch outcome as a Slack response payload.
type SlashHandler struct {
	dispatcher    Dispatcher
	signingSecret string
	textLimit     int
	logger        *slog.Logger
}

// NewSlashHandler builds the handler. An empty signingSecret disables
// request verification; only do that in local development.
func NewSlashHandler(dispatcher Dispatcher, signingSecret string, textLimit int, logger *slog.Logger) *SlashHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SlashHandler{
		dispatcher:    dispatcher,
		signingSecret: signingSecret,
		textLimit:     textLimit,
		logger:        logger,
	}
}

// slashResponse is the JSON payload Slack expects back from a slash
// command request.
type slashResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

// ServeHTTP implements http.Handler.
func (h *SlashHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request", http.StatusBadRequest)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if h.signingSecret != "" {
		if err := h.verifySignature(r.Header, body); err != nil {
			h.logger.Warn("rejected slash command", logging.Err(err))
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	slash, err := slack.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "failed to parse slash command", http.StatusBadRequest)
		return
	}

	cmd, derr := mapSlashCommand(slash)
	if derr != nil {
		h.respond(w, slashResponse{ResponseType: "ephemeral", Text: format.SlackError(derr)})
		return
	}

	result, derr := h.dispatcher.Execute(r.Context(), cmd)
	if derr != nil {
		h.respond(w, slashResponse{ResponseType: "ephemeral", Text: format.SlackError(derr)})
		return
	}
	h.respond(w, slashResponse{ResponseType: "in_channel", Text: format.Slack(result, h.textLimit)})
}

func (h *SlashHandler) verifySignature(header http.Header, body []byte) error {
	verifier, err := slack.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return err
	}
	if _, err := verifier.Write(body); err != nil {
		return err
	}
	return verifier.Ensure()
}

func (h *SlashHandler) respond(w http.ResponseWriter, resp slashResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to write slash response", logging.Err(err))
	}
}

// mapSlashCommand converts a parsed slash command into a command envelope.
// The supported commands map onto the dispatch core's built-ins:
//
//	/pods [namespace]
//	/deployments [namespace]
//	/podlogs <pod-name> [namespace]
//	/cluster
func mapSlashCommand(slash slack.SlashCommand) (bridge.Command, *bridge.DispatchError) {
	args := strings.Fields(slash.Text)
	params := map[string]string{}

	switch slash.Command {
	case "/pods":
		if len(args) > 0 {
			params[bridge.ParamNamespace] = args[0]
		}
		return bridge.Command{Name: bridge.CmdListPods, Params: params, Source: bridge.SourceSlack}, nil

	case "/deployments":
		if len(args) > 0 {
			params[bridge.ParamNamespace] = args[0]
		}
		return bridge.Command{Name: bridge.CmdListDeployments, Params: params, Source: bridge.SourceSlack}, nil

	case "/podlogs":
		if len(args) == 0 {
			return bridge.Command{}, bridge.NewDispatchError(bridge.ErrValidation,
				"usage: /podlogs <pod-name> [namespace]")
		}
		params[bridge.ParamPodName] = args[0]
		if len(args) > 1 {
			params[bridge.ParamNamespace] = args[1]
		}
		return bridge.Command{Name: bridge.CmdGetPodLogs, Params: params, Source: bridge.SourceSlack}, nil

	case "/cluster":
		return bridge.Command{Name: bridge.CmdClusterInfo, Params: params, Source: bridge.SourceSlack}, nil

	default:
		return bridge.Command{}, bridge.NewDispatchError(bridge.ErrNotFound,
			"unsupported slash command %q", slash.Command)
	}
}
