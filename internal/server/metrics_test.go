package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/qwilo/internal/instrumentation"
)

func TestNewMetricsServer(t *testing.T) {
	tests := []struct {
		name     string
		config   MetricsServerConfig
		wantAddr string
		wantErr  string
	}{
		{name: "explicit addr", config: MetricsServerConfig{Addr: ":9191", Provider: newProvider(t, true)}, wantAddr: ":9191"},
		{name: "default addr", config: MetricsServerConfig{Provider: newProvider(t, true)}, wantAddr: DefaultMetricsAddr},
		{name: "nil provider", config: MetricsServerConfig{Addr: ":9090"}, wantErr: "instrumentation provider is required"},
		{name: "disabled provider", config: MetricsServerConfig{Provider: newProvider(t, false)}, wantErr: "instrumentation provider is not enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewMetricsServer(tt.config)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, server.Addr())
		})
	}
}

func TestMetricsServer_Handler(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Provider: newProvider(t, true),
		Health:   NewHealthChecker(nil, "test"),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	for path, want := range map[string]int{
		"/healthz":          http.StatusOK,
		"/readyz":           http.StatusOK,
		"/healthz/detailed": http.StatusOK,
		"/unknown":          http.StatusNotFound,
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestMetricsServer_StartAndShutdown(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{
		Addr:     "127.0.0.1:0",
		Provider: newProvider(t, true),
	})
	require.NoError(t, err)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	require.Eventually(t, func() bool {
		return server.Addr() != "127.0.0.1:0"
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + server.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-serverErr:
		assert.True(t, errors.Is(err, http.ErrServerClosed), "Start() = %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_ShutdownWithoutStart(t *testing.T) {
	server, err := NewMetricsServer(MetricsServerConfig{Provider: newProvider(t, true)})
	require.NoError(t, err)

	assert.NoError(t, server.Shutdown(context.Background()))
}

// newProvider returns a Prometheus-backed provider, or a disabled one
func newProvider(t *testing.T, enabled bool) *instrumentation.Provider {
	t.Helper()
	config := instrumentation.DefaultConfig()
	config.Enabled = enabled
	provider, err := instrumentation.NewProvider(context.Background(), config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}
