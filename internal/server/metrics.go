package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teemow/qwilo/internal/instrumentation"
	"github.com/teemow/qwilo/internal/logging"
)

const (
	// DefaultMetricsAddr is the default address for the metrics server
	DefaultMetricsAddr = ":9090"

	DefaultMetricsReadTimeout  = 10 * time.Second
	DefaultMetricsWriteTimeout = 10 * time.Second
	DefaultMetricsIdleTimeout  = 60 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown of HTTP servers
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServerConfig configures a MetricsServer
type MetricsServerConfig struct {
	Addr string

	// Provider must be enabled and export to Prometheus
	Provider *instrumentation.Provider

	// Health, when set, is served next to /metrics
	Health *HealthChecker

	Logger logging.Logger
}

// MetricsServer serves Prometheus metrics on a port separate from MCP traffic
type MetricsServer struct {
	httpServer *http.Server
	addr       string
	health     *HealthChecker
	logger     logging.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewMetricsServer validates config and creates a MetricsServer
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.Addr == "" {
		config.Addr = DefaultMetricsAddr
	}
	if config.Provider == nil {
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	}
	if !config.Provider.Enabled() {
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	}
	if !config.Provider.ServesPrometheus() {
		return nil, fmt.Errorf("metrics exporter is not prometheus")
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}

	return &MetricsServer{
		addr:   config.Addr,
		health: config.Health,
		logger: config.Logger,
	}, nil
}

// Handler returns the mux serving /metrics and the health endpoints
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	// The OpenTelemetry Prometheus exporter registers with the default registry.
	mux.Handle("/metrics", promhttp.Handler())
	if s.health != nil {
		s.health.Register(mux)
	} else {
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}
	return mux
}

// Start listens on the configured address and serves until Shutdown.
// It returns http.ErrServerClosed after a graceful shutdown.
func (s *MetricsServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultMetricsReadTimeout,
		WriteTimeout:      DefaultMetricsWriteTimeout,
		IdleTimeout:       DefaultMetricsIdleTimeout,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("starting metrics server", "addr", ln.Addr().String())
	return srv.Serve(ln)
}

// Shutdown gracefully stops the server; it is a no-op before Start
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.logger.Info("shutting down metrics server")
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound address once started, the configured one before
func (s *MetricsServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}
