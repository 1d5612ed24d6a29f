package services

import (
	"context"

	"github.com/prodline/orderbridge/internal/domain"
)

// XeroGateway is the vendor surface the orchestration layer depends on; the
// session object in internal/xero satisfies it.
type XeroGateway interface {
	EnsureReady(ctx context.Context) (string, error)
	CreateInvoice(ctx context.Context, tenantID string, invoice domain.Invoice) (domain.CreatedInvoice, error)
	GetInvoice(ctx context.Context, tenantID, invoiceID string) (domain.CreatedInvoice, error)
	CreatePayment(ctx context.Context, tenantID string, payment domain.Payment) error
	EmailInvoice(ctx context.Context, tenantID, invoiceID string) error
}

// HubGateway pushes order status changes to the order-management system.
type HubGateway interface {
	MarkOrderPaid(ctx context.Context, orderNumber int) error
}

// InvoiceSummary is the caller-facing result of an invoice creation.
type InvoiceSummary struct {
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	Status        string `json:"status"`
	Reference     string `json:"reference,omitempty"`
}

// InvoiceService maps order payloads into created invoices.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, payload domain.OrderPayload) (InvoiceSummary, error)
}

// WebhookReport tallies the outcome of one webhook delivery.
type WebhookReport struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// WebhookService reconciles vendor invoice events back into the hub.
type WebhookService interface {
	ProcessEvents(ctx context.Context, events []domain.WebhookEvent) WebhookReport
}
