package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getHealth(t *testing.T, h http.Handler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil, "v1")
	h.SetReady(false)

	code, resp := getHealth(t, h.LivenessHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		shutdown   bool
		wantCode   int
		wantChecks map[string]string
	}{
		{
			name:       "ready",
			ready:      true,
			wantCode:   http.StatusOK,
			wantChecks: map[string]string{"ready": "ok", "shutdown": "ok"},
		},
		{
			name:       "not ready",
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"ready": "not ready", "shutdown": "ok"},
		},
		{
			name:       "shutting down",
			ready:      true,
			shutdown:   true,
			wantCode:   http.StatusServiceUnavailable,
			wantChecks: map[string]string{"ready": "ok", "shutdown": "shutting down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewServerContext(context.Background())
			if tt.shutdown {
				require.NoError(t, sc.Shutdown())
			}
			h := NewHealthChecker(sc, "v1")
			h.SetReady(tt.ready)
			assert.Equal(t, tt.ready, h.IsReady())

			code, resp := getHealth(t, h.ReadinessHandler())
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}

func TestHealthChecker_Detailed(t *testing.T) {
	sc := NewServerContext(context.Background())
	sc.SetDocsClientForAccount("work", nil)
	sc.SetDocsClientForAccount("default", nil)

	code, resp := getHealth(t, NewHealthChecker(sc, "v1.2.3").DetailedHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "v1.2.3", resp.Version)
	assert.NotEmpty(t, resp.Uptime)
	assert.Equal(t, []string{"default", "work"}, resp.Accounts)
}
