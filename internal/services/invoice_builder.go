package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/prodline/orderbridge/internal/domain"
)

const (
	invoiceDateLayout = "2006-01-02"

	// sentinelZeroDate is the placeholder some workflows emit when the due
	// date field was never filled in.
	sentinelZeroDate = "0000-00-00"

	dueDateOffsetDays = 10
)

// BuildInvoice assembles the full invoice document from the original
// payload, the derived context and the prepared lines. Invoices are always
// submitted authorised with tax-exclusive amounts.
func BuildInvoice(payload domain.OrderPayload, dctx domain.DerivedContext, lines []domain.LineItem, now func() time.Time) domain.Invoice {
	detail := payload.Detail
	if detail == nil {
		detail = &domain.OrderDetail{}
	}

	today := now().Format(invoiceDateLayout)

	issueDate := strings.TrimSpace(detail.Date)
	if issueDate == "" {
		issueDate = today
	}

	dueDate := strings.TrimSpace(detail.DueDate)
	switch dueDate {
	case sentinelZeroDate:
		dueDate = today
	case "":
		base, err := time.Parse(invoiceDateLayout, issueDate)
		if err != nil {
			base = now()
		}
		dueDate = base.AddDate(0, 0, dueDateOffsetDays).Format(invoiceDateLayout)
	}

	contact := domain.Contact{
		Name: firstNonEmpty(
			payload.CustomerName,
			detail.CustomerName,
			payload.Contact,
			detail.Contact,
		),
	}
	if contact.Name == "" {
		contact.Name = strings.TrimSpace(fmt.Sprintf("Customer %s", payload.OrderNumber))
	}
	contact.EmailAddress = firstNonEmpty(
		payload.Email,
		detail.Email,
		payload.CustomerEmail,
		detail.CustomerEmail,
	)

	return domain.Invoice{
		Type:            domain.InvoiceTypeAccRec,
		Contact:         contact,
		LineItems:       lines,
		Date:            issueDate,
		DueDate:         dueDate,
		Reference:       ComposeReference(payload.OrderPO, payload.OrderNumber),
		Status:          domain.InvoiceStatusAuthorised,
		LineAmountTypes: domain.LineAmountTypeExclusive,
		BrandingThemeID: dctx.BrandingThemeID,
	}
}

// ComposeReference joins the purchase-order reference and the bracketed
// order number: both present -> "PO [N]", either alone stands by itself,
// neither -> "".
func ComposeReference(po, orderNumber string) string {
	po = strings.TrimSpace(po)
	orderNumber = strings.TrimSpace(orderNumber)

	switch {
	case po != "" && orderNumber != "":
		return fmt.Sprintf("%s [%s]", po, orderNumber)
	case po != "":
		return po
	case orderNumber != "":
		return fmt.Sprintf("[%s]", orderNumber)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
