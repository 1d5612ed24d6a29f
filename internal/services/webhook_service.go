package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/prodline/orderbridge/internal/domain"
	"github.com/prodline/orderbridge/internal/platform/requestctx"
)

// orderNumberPattern extracts the hub order number from an invoice
// reference of the form "WEB-1234 [6789]".
var orderNumberPattern = regexp.MustCompile(`\[(\d+)\]`)

// WebhookServiceDeps bundles collaborators required to construct the
// webhook service.
type WebhookServiceDeps struct {
	Gateway XeroGateway
	Hub     HubGateway
}

type webhookService struct {
	gateway XeroGateway
	hub     HubGateway
}

// NewWebhookService constructs the service that reconciles vendor invoice
// events into hub order status updates.
func NewWebhookService(deps WebhookServiceDeps) (WebhookService, error) {
	if deps.Gateway == nil {
		return nil, errors.New("webhook service: gateway is required")
	}
	if deps.Hub == nil {
		return nil, errors.New("webhook service: hub is required")
	}
	return &webhookService{gateway: deps.Gateway, hub: deps.Hub}, nil
}

// ProcessEvents walks a webhook delivery event by event. Each event is
// handled in isolation: a failure is counted and logged but never stops
// the rest of the batch, and the delivery as a whole always succeeds.
func (s *webhookService) ProcessEvents(ctx context.Context, events []domain.WebhookEvent) WebhookReport {
	logger := requestctx.Logger(ctx)

	var report WebhookReport
	for _, event := range events {
		switch s.processEvent(ctx, logger, event) {
		case eventUpdated:
			report.Updated++
		case eventSkipped:
			report.Skipped++
		case eventFailed:
			report.Failed++
		}
	}
	return report
}

type eventOutcome int

const (
	eventSkipped eventOutcome = iota
	eventUpdated
	eventFailed
)

func (s *webhookService) processEvent(ctx context.Context, logger *zap.Logger, event domain.WebhookEvent) eventOutcome {
	if !strings.EqualFold(event.EventCategory, domain.EventCategoryInvoice) ||
		!strings.EqualFold(event.EventType, domain.EventTypeUpdate) {
		return eventSkipped
	}
	if event.ResourceID == "" || event.ResourceID == domain.PlaceholderResourceID {
		return eventSkipped
	}

	tenantID, err := s.gateway.EnsureReady(ctx)
	if err != nil {
		logger.Warn("webhook event: vendor session unavailable",
			zap.String("resource_id", event.ResourceID), zap.Error(err))
		return eventFailed
	}

	invoice, err := s.gateway.GetInvoice(ctx, tenantID, event.ResourceID)
	if err != nil {
		logger.Warn("webhook event: invoice lookup failed",
			zap.String("resource_id", event.ResourceID), zap.Error(err))
		return eventFailed
	}

	if !strings.EqualFold(invoice.Status, domain.InvoiceStatusPaid) {
		return eventSkipped
	}

	orderNumber, ok := ExtractOrderNumber(invoice.Reference)
	if !ok {
		logger.Info("webhook event: paid invoice has no order reference",
			zap.String("resource_id", event.ResourceID),
			zap.String("reference", invoice.Reference))
		return eventSkipped
	}

	if err := s.hub.MarkOrderPaid(ctx, orderNumber); err != nil {
		logger.Warn("webhook event: hub update failed",
			zap.Int("order_number", orderNumber), zap.Error(err))
		return eventFailed
	}

	logger.Info("order marked paid",
		zap.Int("order_number", orderNumber),
		zap.String("invoice_id", invoice.InvoiceID))
	return eventUpdated
}

// ExtractOrderNumber pulls the bracketed hub order number out of an invoice
// reference. The first bracketed run of digits wins.
func ExtractOrderNumber(reference string) (int, bool) {
	match := orderNumberPattern.FindStringSubmatch(reference)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
