package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/prodline/orderbridge/internal/domain"
	"github.com/prodline/orderbridge/internal/platform/requestctx"
)

// InvoiceServiceDeps bundles collaborators required to construct the
// invoice service.
type InvoiceServiceDeps struct {
	Gateway XeroGateway
	Mapper  MapperConfig
	Clock   func() time.Time
}

type invoiceService struct {
	gateway XeroGateway
	mapper  MapperConfig
	clock   func() time.Time
}

// NewInvoiceService constructs the service that maps order payloads into
// created invoices.
func NewInvoiceService(deps InvoiceServiceDeps) (InvoiceService, error) {
	if deps.Gateway == nil {
		return nil, errors.New("invoice service: gateway is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &invoiceService{
		gateway: deps.Gateway,
		mapper:  deps.Mapper,
		clock: func() time.Time {
			return clock().UTC()
		},
	}, nil
}

// CreateInvoice derives the invoice from the payload and submits it. The
// mark-as-paid and email-customer follow-ups are best-effort: their
// failures are logged and never fail the creation result.
func (s *invoiceService) CreateInvoice(ctx context.Context, payload domain.OrderPayload) (InvoiceSummary, error) {
	logger := requestctx.Logger(ctx)

	dctx := DeriveContext(payload, s.mapper)
	lines := BuildLineItems(payload, dctx.TrackingLabel, s.mapper.SalesAccountCode)
	invoice := BuildInvoice(payload, dctx, lines, s.clock)

	tenantID, err := s.gateway.EnsureReady(ctx)
	if err != nil {
		return InvoiceSummary{}, err
	}

	created, err := s.gateway.CreateInvoice(ctx, tenantID, invoice)
	if err != nil {
		return InvoiceSummary{}, err
	}

	logger.Info("invoice created",
		zap.String("invoice_id", created.InvoiceID),
		zap.String("invoice_number", created.InvoiceNumber),
		zap.String("reference", created.Reference),
	)

	if dctx.MarkAsPaid {
		s.applyPayment(ctx, tenantID, created, payload, dctx)
	}

	if dctx.EmailCustomer {
		if err := s.gateway.EmailInvoice(ctx, tenantID, created.InvoiceID); err != nil {
			logger.Warn("invoice email failed", zap.String("invoice_id", created.InvoiceID), zap.Error(err))
		}
	}

	return InvoiceSummary{
		InvoiceID:     created.InvoiceID,
		InvoiceNumber: created.InvoiceNumber,
		Status:        created.Status,
		Reference:     created.Reference,
	}, nil
}

func (s *invoiceService) applyPayment(ctx context.Context, tenantID string, created domain.CreatedInvoice, payload domain.OrderPayload, dctx domain.DerivedContext) {
	logger := requestctx.Logger(ctx)

	amount, ok := totalIncludingTax(payload)
	if !ok {
		logger.Warn("mark-as-paid skipped: no usable totals on payload",
			zap.String("invoice_id", created.InvoiceID))
		return
	}

	payment := domain.Payment{
		Invoice: domain.PaymentInvoiceRef{InvoiceID: created.InvoiceID},
		Account: domain.PaymentAccountRef{Code: dctx.ClearingAccount},
		Date:    s.clock().Format(invoiceDateLayout),
		Amount:  amount.InexactFloat64(),
	}
	if err := s.gateway.CreatePayment(ctx, tenantID, payment); err != nil {
		logger.Warn("invoice payment failed", zap.String("invoice_id", created.InvoiceID), zap.Error(err))
	}
}

// totalIncludingTax computes the settled amount from whichever payload
// source provides both a pre-tax total and a tax amount, detail block first.
func totalIncludingTax(payload domain.OrderPayload) (decimal.Decimal, bool) {
	if payload.Detail != nil {
		if total, tax, ok := totalAndTax(payload.Detail.TotalExVAT, payload.Detail.VAT); ok {
			return total.Add(tax), true
		}
	}
	if total, tax, ok := totalAndTax(payload.TotalExVAT, payload.VAT); ok {
		return total.Add(tax), true
	}
	return decimal.Zero, false
}

func totalAndTax(totalField, taxField any) (decimal.Decimal, decimal.Decimal, bool) {
	total, okTotal := parseAmount(totalField)
	tax, okTax := parseAmount(taxField)
	if !okTotal || !okTax {
		return decimal.Zero, decimal.Zero, false
	}
	return total, tax, true
}
