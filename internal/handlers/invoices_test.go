package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prodline/orderbridge/internal/domain"
	"github.com/prodline/orderbridge/internal/services"
	"github.com/prodline/orderbridge/internal/xero"
)

type stubInvoiceService struct {
	createFn func(ctx context.Context, payload domain.OrderPayload) (services.InvoiceSummary, error)
	payloads []domain.OrderPayload
}

func (s *stubInvoiceService) CreateInvoice(ctx context.Context, payload domain.OrderPayload) (services.InvoiceSummary, error) {
	s.payloads = append(s.payloads, payload)
	if s.createFn != nil {
		return s.createFn(ctx, payload)
	}
	return services.InvoiceSummary{InvoiceID: "inv-1", InvoiceNumber: "INV-0001", Status: "AUTHORISED"}, nil
}

func postInvoice(t *testing.T, svc services.InvoiceService, body string) *httptest.ResponseRecorder {
	t.Helper()
	handlers := NewInvoiceHandlers(svc)
	router := NewRouter(WithInvoiceRoutes(handlers.Routes))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreateInvoiceSuccess(t *testing.T) {
	svc := &stubInvoiceService{}
	rr := postInvoice(t, svc, `{"order_number":"6789","order_po":"WEB-1234"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var summary services.InvoiceSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if summary.InvoiceID != "inv-1" {
		t.Fatalf("unexpected summary %#v", summary)
	}

	if len(svc.payloads) != 1 || svc.payloads[0].OrderNumber != "6789" {
		t.Fatalf("unexpected payload handed to service: %#v", svc.payloads)
	}
}

func TestCreateInvoiceMalformedBody(t *testing.T) {
	svc := &stubInvoiceService{}
	rr := postInvoice(t, svc, `{not json`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if len(svc.payloads) != 0 {
		t.Fatal("service must not be called for malformed bodies")
	}
}

func TestCreateInvoiceErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not authenticated", err: xero.ErrNotAuthenticated, wantStatus: http.StatusUnauthorized, wantCode: "not_authenticated"},
		{name: "refresh failed", err: fmt.Errorf("wrapped: %w", xero.ErrRefreshFailed), wantStatus: http.StatusBadGateway, wantCode: "token_refresh_failed"},
		{name: "no tenant", err: xero.ErrNoTenant, wantStatus: http.StatusBadGateway, wantCode: "no_tenant"},
		{name: "vendor rejected", err: fmt.Errorf("wrapped: %w", xero.ErrVendorRejected), wantStatus: http.StatusBadGateway, wantCode: "vendor_rejected"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubInvoiceService{
				createFn: func(context.Context, domain.OrderPayload) (services.InvoiceSummary, error) {
					return services.InvoiceSummary{}, tc.err
				},
			}
			rr := postInvoice(t, svc, `{}`)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rr.Code, rr.Body.String())
			}

			var body struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to parse response: %v", err)
			}
			if body.Error != tc.wantCode {
				t.Fatalf("expected code %q, got %q", tc.wantCode, body.Error)
			}
		})
	}
}

func TestCreateInvoiceUnknownRoute(t *testing.T) {
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
