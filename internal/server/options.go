package server

import (
	"errors"
	"log/slog"

	"github.com/giantswarm/k8s-slack-bridge/internal/bridge"
	"github.com/giantswarm/k8s-slack-bridge/internal/instrumentation"
	"github.com/giantswarm/k8s-slack-bridge/internal/k8s"
)

// Option is a functional option for configuring ServerContext.
type Option func(*ServerContext) error

// WithGateway sets the cluster gateway.
func WithGateway(gateway k8s.Gateway) Option {
	return func(sc *ServerContext) error {
		if gateway == nil {
			return ErrMissingGateway
		}
		sc.gateway = gateway
		return nil
	}
}

// WithNotifier sets the Slack notifier. Passing nil is allowed and leaves
// the notify_slack command unavailable.
func WithNotifier(notifier bridge.Notifier) Option {
	return func(sc *ServerContext) error {
		sc.notifier = notifier
		return nil
	}
}

// WithDispatcher sets the command dispatcher.
func WithDispatcher(dispatcher *bridge.Dispatcher) Option {
	return func(sc *ServerContext) error {
		if dispatcher == nil {
			return ErrMissingDispatcher
		}
		sc.dispatcher = dispatcher
		return nil
	}
}

// WithLogger sets the shared logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the configuration after validating it.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		if err := config.Validate(); err != nil {
			return err
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithMetrics sets the dispatch metrics handle.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(sc *ServerContext) error {
		sc.metrics = metrics
		return nil
	}
}

// Error definitions for ServerContext validation and operations.
var (
	ErrMissingGateway    = errors.New("cluster gateway is required")
	ErrMissingDispatcher = errors.New("command dispatcher is required")
	ErrMissingLogger     = errors.New("logger is required")
	ErrMissingConfig     = errors.New("configuration is required")
	ErrInvalidTimeout    = errors.New("command timeout must be positive")
	ErrInvalidTailLines  = errors.New("log tail lines must be positive")
	ErrInvalidTextLimit  = errors.New("slack text limit must be positive")
)
