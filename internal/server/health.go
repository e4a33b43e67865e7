package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusUnavailable  = "unavailable"

	storageCheckTimeout = 2 * time.Second
)

// HealthChecker serves the liveness and readiness probes of the MCP server.
// Readiness covers the ready flag, shutdown, and the task storage backend.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready. sc may be
// nil, in which case only the ready flag is checked.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse adds uptime, task counts and the active
// configuration to the readiness checks.
type DetailedHealthResponse struct {
	HealthResponse
	Uptime       string `json:"uptime"`
	Tasks        int    `json:"tasks"`
	PendingTasks int    `json:"pending_tasks"`
	Store        string `json:"store,omitempty"`
	Transport    string `json:"transport,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
}

// checks runs every readiness check and reports whether all passed.
func (h *HealthChecker) checks(ctx context.Context) (map[string]string, bool) {
	results := map[string]string{"ready": healthStatusOK}
	ok := true

	if !h.ready.Load() {
		results["ready"] = healthStatusNotReady
		ok = false
	}

	sc := h.serverContext
	if sc == nil {
		return results, ok
	}

	results["shutdown"] = healthStatusOK
	if sc.IsShutdown() {
		results["shutdown"] = healthStatusShuttingDown
		// The backend is closed once the context shut down.
		return results, false
	}

	ctx, cancel := context.WithTimeout(ctx, storageCheckTimeout)
	defer cancel()
	results["storage"] = healthStatusOK
	if err := sc.CheckStorage(ctx); err != nil {
		sc.Logger().Warn("storage health check failed", "error", err.Error())
		results["storage"] = healthStatusUnavailable
		ok = false
	}

	return results, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// LivenessHandler serves /healthz. It only reports that the process is up.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checks, ok := h.checks(r.Context())
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: healthStatusNotReady, Checks: checks})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK, Checks: checks})
	})
}

// DetailedHealthHandler serves /healthz/detailed.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checks, ok := h.checks(r.Context())

		resp := DetailedHealthResponse{
			HealthResponse: HealthResponse{Status: healthStatusOK, Checks: checks},
			Uptime:         time.Since(h.startTime).Truncate(time.Second).String(),
		}
		if sc := h.serverContext; sc != nil {
			cfg := sc.Config()
			resp.Store = cfg.Store
			resp.Transport = cfg.Transport
			resp.Endpoint = cfg.Endpoint
			if store := sc.Tasks(); store != nil {
				resp.Tasks = len(store.Tasks())
				resp.PendingTasks = len(store.Pending())
			}
		}

		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
			resp.Status = healthStatusNotReady
			if checks["shutdown"] == healthStatusShuttingDown {
				resp.Status = healthStatusShuttingDown
			}
		}
		writeJSON(w, status, resp)
	})
}

// RegisterHealthEndpoints registers health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
