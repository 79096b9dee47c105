package bridge

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/giantswarm/k8s-slack-bridge/internal/instrumentation"
	"github.com/giantswarm/k8s-slack-bridge/internal/k8s"
	"github.com/giantswarm/k8s-slack-bridge/internal/logging"
)

// Notifier posts a message to a Slack channel. Implemented by the slackbot
// package; faked in tests.
type Notifier interface {
	PostMessage(ctx context.Context, channel, text string) error
}

// DispatcherConfig carries the dispatcher's collaborators and tunables.
type DispatcherConfig struct {
	Registry *Registry
	Gateway  k8s.Gateway

	// Notifier may be nil when no Slack credentials are configured; the
	// notify_slack command then fails with UpstreamUnavailable.
	Notifier Notifier

	// CommandTimeout bounds every collaborator call. Zero disables the
	// dispatcher-level deadline (the caller's context still applies).
	CommandTimeout time.Duration

	// DefaultNamespace is used when a command omits the namespace
	// parameter.
	DefaultNamespace string

	// DefaultTailLines bounds log fetches when tail_lines is not given.
	DefaultTailLines int64

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// Dispatcher routes validated commands to the cluster gateway or the Slack
// notifier. It is stateless apart from its read-only configuration and safe
// for concurrent use.
type Dispatcher struct {
	registry         *Registry
	gateway          k8s.Gateway
	notifier         Notifier
	commandTimeout   time.Duration
	defaultNamespace string
	defaultTailLines int64
	logger           *slog.Logger
	metrics          *instrumentation.Metrics
}

// NewDispatcher builds a Dispatcher, filling unset tunables with defaults.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	if cfg.DefaultNamespace == "" {
		cfg.DefaultNamespace = "default"
	}
	if cfg.DefaultTailLines <= 0 {
		cfg.DefaultTailLines = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Dispatcher{
		registry:         cfg.Registry,
		gateway:          cfg.Gateway,
		notifier:         cfg.Notifier,
		commandTimeout:   cfg.CommandTimeout,
		defaultNamespace: cfg.DefaultNamespace,
		defaultTailLines: cfg.DefaultTailLines,
		logger:           cfg.Logger,
		metrics:          cfg.Metrics,
	}
}

// Registry returns the command registry backing this dispatcher.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Execute runs a single command to completion. It resolves and validates
// the command before any collaborator is contacted, then performs exactly
// one gateway or notifier call. Every failure is returned as a
// DispatchError; no raw transport error escapes.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) (Result, *DispatchError) {
	start := time.Now()
	result, derr := d.execute(ctx, cmd)
	elapsed := time.Since(start)

	outcome := "ok"
	if derr != nil {
		outcome = string(derr.Kind)
	}
	d.metrics.ObserveCommand(cmd.Name, string(cmd.Source), outcome, elapsed)

	if derr != nil {
		d.logger.Warn("command failed",
			logging.Command(cmd.Name),
			logging.CommandSource(string(cmd.Source)),
			logging.Status(string(derr.Kind)),
			logging.SanitizedErr(derr))
	} else {
		d.logger.Debug("command completed",
			logging.Command(cmd.Name),
			logging.CommandSource(string(cmd.Source)),
			logging.Duration(elapsed))
	}
	return result, derr
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command) (Result, *DispatchError) {
	spec, ok := d.registry.Resolve(cmd.Name)
	if !ok {
		return Result{}, NewDispatchError(ErrNotFound, "unknown command %q", cmd.Name)
	}
	if derr := d.registry.Validate(cmd, spec); derr != nil {
		return Result{}, derr
	}

	if d.commandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.commandTimeout)
		defer cancel()
	}

	switch cmd.Name {
	case CmdListPods:
		return d.listPods(ctx, cmd)
	case CmdListDeployments:
		return d.listDeployments(ctx, cmd)
	case CmdGetPodLogs:
		return d.getPodLogs(ctx, cmd)
	case CmdNotifySlack:
		return d.notifySlack(ctx, cmd)
	case CmdClusterInfo:
		return d.clusterInfo(ctx)
	default:
		// Registered but unrouted names are a wiring mistake, not a caller
		// mistake worth a distinct kind.
		return Result{}, NewDispatchError(ErrValidation, "command %q has no handler", cmd.Name)
	}
}

func (d *Dispatcher) listPods(ctx context.Context, cmd Command) (Result, *DispatchError) {
	namespace := cmd.ParamOr(ParamNamespace, d.defaultNamespace)
	pods, err := d.gateway.ListPods(ctx, namespace)
	if err != nil {
		return Result{}, fromGatewayError(err)
	}
	return PodListResult(pods), nil
}

func (d *Dispatcher) listDeployments(ctx context.Context, cmd Command) (Result, *DispatchError) {
	namespace := cmd.ParamOr(ParamNamespace, d.defaultNamespace)
	deployments, err := d.gateway.ListDeployments(ctx, namespace)
	if err != nil {
		return Result{}, fromGatewayError(err)
	}
	return DeploymentListResult(deployments), nil
}

func (d *Dispatcher) getPodLogs(ctx context.Context, cmd Command) (Result, *DispatchError) {
	namespace := cmd.ParamOr(ParamNamespace, d.defaultNamespace)
	podName := cmd.Param(ParamPodName)

	tailLines := d.defaultTailLines
	if raw := cmd.Param(ParamTailLines); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return Result{}, NewDispatchError(ErrValidation,
				"tail_lines must be a positive integer, got %q", raw)
		}
		tailLines = parsed
	}

	logs, err := d.gateway.GetPodLogs(ctx, namespace, podName, tailLines)
	if err != nil {
		return Result{}, fromGatewayError(err)
	}
	return LogTextResult(logs), nil
}

func (d *Dispatcher) clusterInfo(ctx context.Context) (Result, *DispatchError) {
	info, err := d.gateway.ClusterInfo(ctx)
	if err != nil {
		return Result{}, fromGatewayError(err)
	}
	return ClusterInfoResult(info), nil
}

func (d *Dispatcher) notifySlack(ctx context.Context, cmd Command) (Result, *DispatchError) {
	if d.notifier == nil {
		return Result{}, NewDispatchError(ErrUpstreamUnavailable,
			"slack notifier is not configured")
	}
	channel := cmd.Param(ParamChannel)
	message := cmd.Param(ParamMessage)
	if err := d.notifier.PostMessage(ctx, channel, message); err != nil {
		return Result{}, fromNotifyError(err)
	}
	return AckResult(), nil
}
