// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/librisys/backend/internal/core"
)

type Checker interface {
	Ping(ctx context.Context) error
}

type namedChecker struct {
	name     string
	checker  Checker
	optional bool
}

type Handler struct {
	checks   []namedChecker
	ready    atomic.Bool
	shutdown atomic.Bool
}

// NewHandler always checks the database. Redis is checked only when a
// checker is supplied since the service runs without it. Readiness stays
// false until SetReady(true).
func NewHandler(db, redis Checker) *Handler {
	h := &Handler{
		checks: []namedChecker{{name: "database", checker: db}},
	}
	if redis != nil {
		h.checks = append(h.checks, namedChecker{
			name:     "redis",
			checker:  redis,
			optional: true,
		})
	}
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	h.writeStatus(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	if !h.ready.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "not_ready",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.runHealthChecks(ctx)

	status := "ok"
	statusCode := http.StatusOK
	for i, check := range checks {
		if check.Healthy {
			continue
		}
		if h.checks[i].optional {
			status = "degraded"
			continue
		}
		status = "unavailable"
		statusCode = http.StatusServiceUnavailable
		break
	}

	h.writeStatus(w, statusCode, ReadinessResponse{
		Status: status,
		Checks: checks,
	})
}

func (h *Handler) runHealthChecks(ctx context.Context) []HealthCheck {
	results := make([]HealthCheck, len(h.checks))

	var g errgroup.Group
	for i, nc := range h.checks {
		g.Go(func() error {
			results[i] = runCheck(ctx, nc)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // checks report through results

	return results
}

func runCheck(ctx context.Context, nc namedChecker) HealthCheck {
	check := HealthCheck{
		Name:    nc.name,
		Healthy: true,
	}

	if nc.checker == nil {
		check.Healthy = false
		check.Message = nc.name + " checker not configured"
		return check
	}

	start := time.Now()
	err := nc.checker.Ping(ctx)
	check.Latency = time.Since(start).String()

	if err != nil {
		check.Healthy = false
		check.Message = "ping failed"
	}

	return check
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	core.JSON(w, status, data)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
