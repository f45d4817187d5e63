package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/qwilo/internal/logging"
)

// MCPEndpoint is the path the streamable HTTP transport is served on
const MCPEndpoint = "/mcp"

// HTTPServerConfig configures an HTTPServer
type HTTPServerConfig struct {
	Addr string

	// DisableStreaming answers with plain JSON instead of SSE streams
	DisableStreaming bool

	// Health, when set, adds /healthz and /readyz
	Health *HealthChecker

	Logger logging.Logger
}

// HTTPServer serves the MCP streamable HTTP transport
type HTTPServer struct {
	mcpServer *mcpserver.MCPServer
	config    HTTPServerConfig

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// NewHTTPServer creates an HTTPServer for mcpServer
func NewHTTPServer(mcpServer *mcpserver.MCPServer, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, fmt.Errorf("mcp server is required")
	}
	if config.Addr == "" {
		return nil, fmt.Errorf("listen address is required")
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	return &HTTPServer{mcpServer: mcpServer, config: config}, nil
}

// Handler returns the mux serving the MCP endpoint and the health endpoints
func (s *HTTPServer) Handler() http.Handler {
	opts := []mcpserver.StreamableHTTPOption{mcpserver.WithEndpointPath(MCPEndpoint)}
	if s.config.DisableStreaming {
		opts = append(opts, mcpserver.WithDisableStreaming(true))
	}

	mux := http.NewServeMux()
	mux.Handle(MCPEndpoint, mcpserver.NewStreamableHTTPServer(s.mcpServer, opts...))
	if s.config.Health != nil {
		s.config.Health.Register(mux)
	}
	return mux
}

// Start listens and serves until Shutdown
func (s *HTTPServer) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.config.Logger.Info("starting MCP HTTP server", "addr", ln.Addr().String(), "endpoint", MCPEndpoint)
	return srv.Serve(ln)
}

// Shutdown gracefully stops the server; it is a no-op before Start
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound address once started, the configured one before
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}
