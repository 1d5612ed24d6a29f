package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prodline/orderbridge/internal/domain"
	"github.com/prodline/orderbridge/internal/platform/httpx"
	"github.com/prodline/orderbridge/internal/services"
	"github.com/prodline/orderbridge/internal/xero"
)

// InvoiceHandlers exposes the order-to-invoice endpoint.
type InvoiceHandlers struct {
	invoices services.InvoiceService
}

// NewInvoiceHandlers constructs a new InvoiceHandlers instance.
func NewInvoiceHandlers(invoices services.InvoiceService) *InvoiceHandlers {
	return &InvoiceHandlers{invoices: invoices}
}

// Routes registers the /invoices endpoints.
func (h *InvoiceHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/invoices", h.createInvoice)
}

func (h *InvoiceHandlers) createInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.invoices == nil {
		httpx.WriteError(ctx, w, httpx.NewError("invoice_service_unavailable", "invoice service unavailable", http.StatusServiceUnavailable))
		return
	}

	var payload domain.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be a JSON order payload", http.StatusBadRequest))
		return
	}

	summary, err := h.invoices.CreateInvoice(ctx, payload)
	if err != nil {
		httpx.WriteError(ctx, w, invoiceError(err))
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, summary)
}

// invoiceError maps gateway failures onto the response envelope. Missing
// credentials are the caller's problem; everything vendor-side is a 502.
func invoiceError(err error) httpx.Error {
	switch {
	case errors.Is(err, xero.ErrNotAuthenticated):
		return httpx.NewError("not_authenticated", "no refresh token has been seeded for the accounting vendor", http.StatusUnauthorized)
	case errors.Is(err, xero.ErrRefreshFailed):
		return httpx.NewError("token_refresh_failed", "accounting vendor rejected the token refresh", http.StatusBadGateway)
	case errors.Is(err, xero.ErrNoTenant):
		return httpx.NewError("no_tenant", "no accounting tenant is connected to these credentials", http.StatusBadGateway)
	case errors.Is(err, xero.ErrVendorRejected):
		return httpx.NewError("vendor_rejected", "accounting vendor rejected the invoice", http.StatusBadGateway)
	default:
		return httpx.NewError("internal_error", "invoice creation failed", http.StatusInternalServerError)
	}
}
