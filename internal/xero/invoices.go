package xero

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prodline/orderbridge/internal/domain"
)

type invoicesEnvelope struct {
	Invoices []domain.CreatedInvoice `json:"Invoices"`
}

// CreateInvoice submits the invoice and returns the vendor's record of it.
func (c *Client) CreateInvoice(ctx context.Context, cred Credential, invoice domain.Invoice) (domain.CreatedInvoice, error) {
	payload := map[string]any{"Invoices": []domain.Invoice{invoice}}

	req, err := c.accountingRequest(ctx, http.MethodPost, "/Invoices", cred, payload)
	if err != nil {
		return domain.CreatedInvoice{}, err
	}

	var envelope invoicesEnvelope
	if err := c.doAccounting(req, &envelope); err != nil {
		return domain.CreatedInvoice{}, err
	}
	if len(envelope.Invoices) == 0 {
		return domain.CreatedInvoice{}, fmt.Errorf("%w: empty invoice response", ErrVendorRejected)
	}
	return envelope.Invoices[0], nil
}

// GetInvoice fetches the vendor's current view of an invoice.
func (c *Client) GetInvoice(ctx context.Context, cred Credential, invoiceID string) (domain.CreatedInvoice, error) {
	req, err := c.accountingRequest(ctx, http.MethodGet, "/Invoices/"+invoiceID, cred, nil)
	if err != nil {
		return domain.CreatedInvoice{}, err
	}

	var envelope invoicesEnvelope
	if err := c.doAccounting(req, &envelope); err != nil {
		return domain.CreatedInvoice{}, err
	}
	if len(envelope.Invoices) == 0 {
		return domain.CreatedInvoice{}, fmt.Errorf("%w: invoice %s not found", ErrVendorRejected, invoiceID)
	}
	return envelope.Invoices[0], nil
}

// CreatePayment records a payment settling an invoice in full.
func (c *Client) CreatePayment(ctx context.Context, cred Credential, payment domain.Payment) error {
	payload := map[string]any{"Payments": []domain.Payment{payment}}

	req, err := c.accountingRequest(ctx, http.MethodPut, "/Payments", cred, payload)
	if err != nil {
		return err
	}
	return c.doAccounting(req, nil)
}

// EmailInvoice asks the vendor to send the invoice to its contact. The call
// carries an empty body by contract.
func (c *Client) EmailInvoice(ctx context.Context, cred Credential, invoiceID string) error {
	req, err := c.accountingRequest(ctx, http.MethodPost, "/Invoices/"+invoiceID+"/Email", cred, map[string]any{})
	if err != nil {
		return err
	}
	return c.doAccounting(req, nil)
}

func readErrorDetail(body io.Reader) string {
	detail, err := io.ReadAll(io.LimitReader(body, maxErrorDetailBytes))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(detail))
}
