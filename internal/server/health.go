package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync/atomic"
	"time"
)

const (
	healthOK           = "ok"
	healthNotReady     = "not ready"
	healthShuttingDown = "shutting down"
)

// HealthChecker serves liveness and readiness endpoints
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	version       string
	started       time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready.
// sc may be nil.
func NewHealthChecker(sc *ServerContext, version string) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		version:       version,
		started:       time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns the readiness state
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

func (h *HealthChecker) shuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	Version  string            `json:"version,omitempty"`
	Uptime   string            `json:"uptime,omitempty"`
	Accounts []string          `json:"accounts,omitempty"`
}

// LivenessHandler answers /healthz while the process runs
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{Status: healthOK})
	})
}

// ReadinessHandler answers /readyz with 503 when not ready or shutting down
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		code, resp := h.readiness()
		writeHealth(w, code, resp)
	})
}

// DetailedHandler adds version, uptime and the accounts with active clients
func (h *HealthChecker) DetailedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		code, resp := h.readiness()
		resp.Version = h.version
		resp.Uptime = time.Since(h.started).Truncate(time.Second).String()
		if h.serverContext != nil {
			resp.Accounts = h.serverContext.Accounts()
			sort.Strings(resp.Accounts)
		}
		writeHealth(w, code, resp)
	})
}

func (h *HealthChecker) readiness() (int, HealthResponse) {
	resp := HealthResponse{
		Status: healthOK,
		Checks: map[string]string{"ready": healthOK, "shutdown": healthOK},
	}
	if !h.ready.Load() {
		resp.Checks["ready"] = healthNotReady
		resp.Status = healthNotReady
	}
	if h.shuttingDown() {
		resp.Checks["shutdown"] = healthShuttingDown
		resp.Status = healthNotReady
	}
	if resp.Status != healthOK {
		return http.StatusServiceUnavailable, resp
	}
	return http.StatusOK, resp
}

// Register mounts the health endpoints on mux
func (h *HealthChecker) Register(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHandler())
}

func writeHealth(w http.ResponseWriter, code int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
