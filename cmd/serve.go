package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/k8s-slack-bridge/internal/bridge"
	"github.com/giantswarm/k8s-slack-bridge/internal/instrumentation"
	"github.com/giantswarm/k8s-slack-bridge/internal/k8s"
	"github.com/giantswarm/k8s-slack-bridge/internal/logging"
	"github.com/giantswarm/k8s-slack-bridge/internal/server"
	"github.com/giantswarm/k8s-slack-bridge/internal/slackbot"
	"github.com/giantswarm/k8s-slack-bridge/internal/tools"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// Environment variables holding the Slack credentials. These never appear
// as flags so they cannot leak through process listings.
const (
	envSlackBotToken      = "SLACK_BOT_TOKEN"
	envSlackSigningSecret = "SLACK_SIGNING_SECRET"
)

// ServeConfig carries the resolved serve command settings.
type ServeConfig struct {
	Transport    string
	HTTPAddr     string
	HTTPEndpoint string

	KubeConfigPath string
	InCluster      bool
	QPSLimit       float32
	BurstLimit     int

	DefaultNamespace string
	CommandTimeout   time.Duration
	LogTailLines     int64
	SlackTextLimit   int

	LogLevel  string
	LogFormat string

	EnableMetrics bool
}

// newServeCmd creates the Cobra command for starting the bridge server.
func newServeCmd() *cobra.Command {
	var config ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the bridge server",
		Long: `Start the bridge server. Kubernetes read commands and Slack
notifications are served through two inbound adapters:

  - MCP tools over stdio or streamable HTTP
  - Slack slash commands over HTTP (streamable-http transport only)

Slack credentials are read from the environment (a .env file is honored):
  SLACK_BOT_TOKEN       bot token for posting messages (optional; without
                        it the notify_slack command is unavailable)
  SLACK_SIGNING_SECRET  secret for verifying slash command requests
                        (optional; without it verification is disabled)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(config)
		},
	}

	// Transport flags
	cmd.Flags().StringVar(&config.Transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Kubernetes flags
	cmd.Flags().StringVar(&config.KubeConfigPath, "kubeconfig", "", "Path to the kubeconfig file (default: standard loading rules)")
	cmd.Flags().BoolVar(&config.InCluster, "in-cluster", false, "Use in-cluster authentication (service account token) instead of kubeconfig")
	cmd.Flags().Float32Var(&config.QPSLimit, "qps-limit", k8s.DefaultQPSLimit, "QPS limit for Kubernetes API calls")
	cmd.Flags().IntVar(&config.BurstLimit, "burst-limit", k8s.DefaultBurstLimit, "Burst limit for Kubernetes API calls")

	// Dispatch flags
	cmd.Flags().StringVar(&config.DefaultNamespace, "namespace", "default", "Namespace used when a command does not name one")
	cmd.Flags().DurationVar(&config.CommandTimeout, "command-timeout", 30*time.Second, "Deadline applied to each command execution")
	cmd.Flags().Int64Var(&config.LogTailLines, "log-tail-lines", 100, "Default number of log lines fetched by get_pod_logs")
	cmd.Flags().IntVar(&config.SlackTextLimit, "slack-text-limit", 3000, "Character budget for Slack-rendered log output")

	// Observability flags
	cmd.Flags().StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, or error")
	cmd.Flags().StringVar(&config.LogFormat, "log-format", "json", "Log format: json or text")
	cmd.Flags().BoolVar(&config.EnableMetrics, "metrics", true, "Expose Prometheus metrics on /metrics (streamable-http transport only)")

	return cmd
}

// runServe contains the main server logic with support for both transports.
func runServe(config ServeConfig) error {
	// Load a .env file when present so local runs can carry Slack
	// credentials without exporting them. A missing file is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	logger := logging.NewLogger(config.LogLevel, config.LogFormat)

	serverConfig := server.NewDefaultConfig()
	serverConfig.Version = rootCmd.Version
	serverConfig.DefaultNamespace = config.DefaultNamespace
	serverConfig.KubeConfigPath = config.KubeConfigPath
	serverConfig.InCluster = config.InCluster
	serverConfig.CommandTimeout = config.CommandTimeout
	serverConfig.LogTailLines = config.LogTailLines
	serverConfig.SlackTextLimit = config.SlackTextLimit
	serverConfig.LogLevel = config.LogLevel
	serverConfig.LogFormat = config.LogFormat
	if err := serverConfig.Validate(); err != nil {
		return fmt.Errorf("invalid serve configuration: %w", err)
	}

	gateway, err := k8s.NewGateway(k8s.Config{
		KubeConfigPath: config.KubeConfigPath,
		InCluster:      config.InCluster,
		QPSLimit:       config.QPSLimit,
		BurstLimit:     config.BurstLimit,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create cluster gateway: %w", err)
	}

	// The notifier is optional. Without a token the notify_slack command
	// reports UpstreamUnavailable and everything else still works.
	var notifier bridge.Notifier
	if token := os.Getenv(envSlackBotToken); token != "" {
		notifier = slackbot.NewNotifier(token)
	} else {
		logger.Info("no slack bot token configured, notify_slack is unavailable")
	}

	var metrics *instrumentation.Metrics
	if config.EnableMetrics {
		metrics = instrumentation.NewMetrics(prometheus.DefaultRegisterer)
	}

	dispatcher := bridge.NewDispatcher(bridge.DispatcherConfig{
		Registry:         bridge.DefaultRegistry(),
		Gateway:          gateway,
		Notifier:         notifier,
		CommandTimeout:   config.CommandTimeout,
		DefaultNamespace: config.DefaultNamespace,
		DefaultTailLines: config.LogTailLines,
		Logger:           logger,
		Metrics:          metrics,
	})

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithGateway(gateway),
		server.WithNotifier(notifier),
		server.WithDispatcher(dispatcher),
		server.WithLogger(logger),
		server.WithConfig(serverConfig),
		server.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			// Only log shutdown errors for non-stdio transports to avoid
			// output interference
			if config.Transport != transportStdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	mcpSrv := mcpserver.NewMCPServer(serverConfig.ServerName, rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithResourceCapabilities(true, true),
	)

	if err := tools.RegisterBridgeTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register bridge tools: %w", err)
	}

	switch config.Transport {
	case transportStdio:
		// Don't print startup messages for stdio mode as they interfere
		// with MCP communication
		return runStdioServer(shutdownCtx, mcpSrv, os.Stdin, os.Stdout)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, config)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", config.Transport)
	}
}
