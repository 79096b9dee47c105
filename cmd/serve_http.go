package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/k8s-slack-bridge/internal/server"
	"github.com/giantswarm/k8s-slack-bridge/internal/slackbot"
)

// slashCommandPath is where Slack delivers slash command payloads.
const slashCommandPath = "/slack/commands"

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// runStreamableHTTPServer runs the server with Streamable HTTP transport.
// Besides the MCP endpoint, the mux carries the Slack slash command
// endpoint, the Kubernetes probes and, when enabled, Prometheus metrics.
func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, config ServeConfig) error {
	logger := sc.Logger()
	mux := http.NewServeMux()

	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(config.HTTPEndpoint),
	)
	mux.Handle(config.HTTPEndpoint, mcpHandler)

	signingSecret := os.Getenv(envSlackSigningSecret)
	if signingSecret == "" {
		logger.Warn("no slack signing secret configured, slash command verification is disabled")
	}
	slashHandler := slackbot.NewSlashHandler(sc.Dispatcher(), signingSecret, config.SlackTextLimit, logger)
	mux.Handle(slashCommandPath, slashHandler)

	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)

	if config.EnableMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	logger.Info("streamable HTTP server starting",
		"addr", config.HTTPAddr,
		"mcp_endpoint", config.HTTPEndpoint,
		"slash_endpoint", slashCommandPath,
		"health_endpoints", []string{"/healthz", "/readyz"},
		"metrics_enabled", config.EnableMetrics)

	// HTTP server with security timeouts
	httpServer := &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	})

	// Drain in-flight requests once the shutdown signal arrives or the
	// server fails.
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info("HTTP server gracefully stopped")
	return nil
}
