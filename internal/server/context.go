package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/giantswarm/k8s-slack-bridge/internal/bridge"
	"github.com/giantswarm/k8s-slack-bridge/internal/instrumentation"
	"github.com/giantswarm/k8s-slack-bridge/internal/k8s"
)

// ServerContext encapsulates all dependencies needed by the inbound
// adapters and provides a clean abstraction for dependency injection and
// lifecycle management.
type ServerContext struct {
	gateway    k8s.Gateway
	notifier   bridge.Notifier
	dispatcher *bridge.Dispatcher
	logger     *slog.Logger
	config     *Config
	metrics    *instrumentation.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a ServerContext with defaults, then applies the
// provided functional options and validates required dependencies.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	serverCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    serverCtx,
		cancel: cancel,
		config: NewDefaultConfig(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// Gateway returns the cluster gateway.
func (sc *ServerContext) Gateway() k8s.Gateway {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.gateway
}

// Notifier returns the Slack notifier, which may be nil when no Slack
// credentials were configured.
func (sc *ServerContext) Notifier() bridge.Notifier {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.notifier
}

// Dispatcher returns the command dispatcher.
func (sc *ServerContext) Dispatcher() *bridge.Dispatcher {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.dispatcher
}

// Logger returns the shared logger.
func (sc *ServerContext) Logger() *slog.Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// Metrics returns the dispatch metrics handle, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// Shutdown cancels the server context and releases resources. It is safe
// to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("shutting down server context")
	if sc.cancel != nil {
		sc.cancel()
	}
	sc.shutdown = true
	return nil
}

// IsShutdown reports whether Shutdown has completed.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set. The notifier is
// optional; notify_slack fails at dispatch time when it is absent.
func (sc *ServerContext) validate() error {
	if sc.gateway == nil {
		return ErrMissingGateway
	}
	if sc.dispatcher == nil {
		return ErrMissingDispatcher
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Config holds the server configuration shared across adapters.
type Config struct {
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Kubernetes settings
	DefaultNamespace string `json:"defaultNamespace"`
	KubeConfigPath   string `json:"kubeConfigPath"`
	InCluster        bool   `json:"inCluster"`

	// Dispatch settings
	CommandTimeout time.Duration `json:"commandTimeout"`
	LogTailLines   int64         `json:"logTailLines"`
	SlackTextLimit int           `json:"slackTextLimit"`

	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:       "k8s-slack-bridge",
		Version:          "0.1.0",
		DefaultNamespace: "default",
		CommandTimeout:   30 * time.Second,
		LogTailLines:     100,
		SlackTextLimit:   3000,
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// Validate rejects configurations the dispatch core cannot run with.
func (c *Config) Validate() error {
	if c.CommandTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.LogTailLines <= 0 {
		return ErrInvalidTailLines
	}
	if c.SlackTextLimit <= 0 {
		return ErrInvalidTextLimit
	}
	return nil
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
