package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/qwilo/internal/analyzer"
	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/resources"
	"github.com/teemow/qwilo/internal/server"
	"github.com/teemow/qwilo/internal/tools/docs_tools"
	"github.com/teemow/qwilo/internal/tools/drive_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// serveOptions holds the flags of the serve command
type serveOptions struct {
	transport        string
	httpAddr         string
	yolo             bool
	disableStreaming bool
	metricsEnabled   bool
	metricsAddr      string
}

func newServeCmd(a *app) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the Google Docs and
Drive tools to AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on --http-addr at /mcp

Safety Mode:
  By default, the server operates in read-only mode and only offers tools that
  read documents. Use --yolo to enable the tools that create documents and
  move files.

The docs_analyze_documents tool is offered in --yolo mode when a Gemini API key
is configured (GEMINI_API_KEY or GOOGLE_API_KEY).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.transport {
			case transportStdio, transportStreamableHTTP:
			default:
				return fmt.Errorf("unsupported transport %q: use %s or %s", opts.transport, transportStdio, transportStreamableHTTP)
			}
			return a.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.yolo, "yolo", false, "Enable write operations (document creation, file moves). Default is read-only mode.")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", true, "Serve Prometheus metrics on a dedicated port (streamable-http transport only)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

func (a *app) runServe(ctx context.Context, opts serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := a.loggerAdapter()

	provider, err := instrumentation.NewProvider(shutdownCtx, a.cfg.InstrumentationConfig(version))
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			a.logger.Warn("instrumentation shutdown failed", "error", err)
		}
	}()

	readOnly := !opts.yolo
	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(provider.Metrics()),
		server.WithTabPolicy(a.cfg.TabPolicy()),
		server.WithOutputFolder(a.cfg.OutputFolderID),
		server.WithReadOnly(readOnly),
	}
	if !readOnly && a.cfg.GeminiAPIKey != "" {
		gemini, err := analyzer.NewGemini(shutdownCtx, a.cfg.GeminiConfig(),
			analyzer.WithLogger(logger),
			analyzer.WithMetrics(provider.Metrics()),
		)
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}
		serverOpts = append(serverOpts, server.WithAnalyzer(gemini))
	}

	serverContext := server.NewServerContext(shutdownCtx, serverOpts...)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			a.logger.Warn("server context shutdown failed", "error", err)
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("qwilo", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	a.logger.Info("starting MCP server",
		"transport", opts.transport,
		"read_only", readOnly,
		"analyzer", serverContext.Analyzer() != nil,
	)

	if opts.transport == transportStdio {
		return runStdioServer(mcpSrv)
	}
	return a.runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, provider, opts)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers every tool group and the resources on mcpSrv
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	registrations := []struct {
		name     string
		register func(*mcpserver.MCPServer, *server.ServerContext) error
	}{
		{name: "Docs tools", register: docs_tools.RegisterDocsTools},
		{name: "Drive tools", register: drive_tools.RegisterDriveTools},
		{name: "resources", register: resources.RegisterResources},
	}

	for _, reg := range registrations {
		if err := reg.register(mcpSrv, sc); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}
	return nil
}

func (a *app) runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, provider *instrumentation.Provider, opts serveOptions) error {
	logger := a.loggerAdapter()
	health := server.NewHealthChecker(sc, version)

	httpServer, err := server.NewHTTPServer(mcpSrv, server.HTTPServerConfig{
		Addr:             opts.httpAddr,
		DisableStreaming: opts.disableStreaming,
		Health:           health,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	var metricsServer *server.MetricsServer
	if opts.metricsEnabled && provider.Enabled() && provider.ServesPrometheus() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     opts.metricsAddr,
			Provider: provider,
			Health:   health,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	serverErr := make(chan error, 2)
	go func() {
		serverErr <- httpServer.Start()
	}()
	if metricsServer != nil {
		go func() {
			serverErr <- metricsServer.Start()
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server stopped with error: %w", err)
		}
	}

	health.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown failed", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}
	return runErr
}
