package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/prodline/orderbridge/internal/domain"
	"github.com/prodline/orderbridge/internal/platform/httpx"
	"github.com/prodline/orderbridge/internal/platform/requestctx"
	"github.com/prodline/orderbridge/internal/services"
)

// WebhookHandlers receives signed vendor event deliveries.
type WebhookHandlers struct {
	webhooks services.WebhookService
}

// NewWebhookHandlers constructs a new WebhookHandlers instance.
func NewWebhookHandlers(webhooks services.WebhookService) *WebhookHandlers {
	return &WebhookHandlers{webhooks: webhooks}
}

// Routes registers the vendor webhook endpoint.
func (h *WebhookHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/xero", h.receiveEvents)
}

// receiveEvents always answers 200 once the signature middleware has let
// the delivery through; individual event failures are reported in the
// body so the vendor never re-delivers the whole batch.
func (h *WebhookHandlers) receiveEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.webhooks == nil {
		httpx.WriteError(ctx, w, httpx.NewError("webhook_service_unavailable", "webhook service unavailable", http.StatusServiceUnavailable))
		return
	}

	deliveryID := ulid.Make().String()
	logger := requestctx.Logger(ctx).With(zap.String("delivery_id", deliveryID))
	ctx = requestctx.WithLogger(ctx, logger)

	var payload domain.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be a JSON webhook payload", http.StatusBadRequest))
		return
	}

	report := h.webhooks.ProcessEvents(ctx, payload.Events)

	logger.Info("webhook delivery processed",
		zap.Int("events", len(payload.Events)),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"delivery_id": deliveryID,
		"events":      len(payload.Events),
		"updated":     report.Updated,
		"skipped":     report.Skipped,
		"failed":      report.Failed,
	})
}
