package handlers

import (
	"net/http"
	"time"

	"github.com/prodline/orderbridge/internal/platform/httpx"
)

// ReadinessChecker reports whether the vendor session holds a usable
// refresh token. The xero session satisfies it.
type ReadinessChecker interface {
	Authenticated() bool
}

// HealthHandlers serves the /healthz and /readyz endpoints.
type HealthHandlers struct {
	readiness ReadinessChecker
	clock     func() time.Time
	startedAt time.Time
}

// HealthOption customises the health handlers before construction.
type HealthOption func(*HealthHandlers)

// WithHealthReadiness wires the vendor session readiness probe.
func WithHealthReadiness(checker ReadinessChecker) HealthOption {
	return func(h *HealthHandlers) {
		h.readiness = checker
	}
}

// WithHealthClock overrides the clock, for tests.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		h.clock = clock
	}
}

// NewHealthHandlers constructs the health endpoints.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startedAt = h.clock().UTC()
	return h
}

// Healthz reports process liveness.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.clock().UTC()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    now.Sub(h.startedAt).String(),
		"timestamp": now.Format(time.RFC3339),
	})
}

// Readyz reports whether the bridge can reach the accounting vendor. It
// fails until a refresh token has been seeded.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.readiness == nil || h.readiness.Authenticated() {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
		return
	}
	httpx.WriteError(r.Context(), w, httpx.NewError("not_ready", "accounting vendor session has no refresh token", http.StatusServiceUnavailable))
}
