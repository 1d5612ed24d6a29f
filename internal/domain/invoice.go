package domain

// Invoice field values fixed by the bridge. Invoices are always submitted
// already authorised (never draft) with tax-exclusive line amounts.
const (
	InvoiceTypeAccRec       = "ACCREC"
	InvoiceStatusAuthorised = "AUTHORISED"
	InvoiceStatusPaid       = "PAID"
	LineAmountTypeExclusive = "Exclusive"
)

// Tax type codes expected by the accounting ledger (UK rates).
const (
	TaxCodeStandard = "OUTPUT2"
	TaxCodeReduced  = "RRCOUTPUT"
	TaxCodeExempt   = "EXEMPTOUTPUT"
)

// TrackingCategoryBrand is the tracking category line items are tagged
// under when a brand label applies.
const TrackingCategoryBrand = "Brand"

// Contact identifies the invoice recipient. EmailAddress is omitted from
// the wire payload entirely when unknown.
type Contact struct {
	Name         string `json:"Name"`
	EmailAddress string `json:"EmailAddress,omitempty"`
}

// Tracking tags a line item with a tracking category option.
type Tracking struct {
	Name   string `json:"Name"`
	Option string `json:"Option"`
}

// LineItem is one invoice line in the accounting vendor's casing.
//
// Quantity is always 1: the upstream price field is the full line total,
// so UnitAmount carries that total and the human-readable quantity only
// appears inside Description.
type LineItem struct {
	Description string     `json:"Description"`
	Quantity    float64    `json:"Quantity"`
	UnitAmount  float64    `json:"UnitAmount"`
	AccountCode string     `json:"AccountCode,omitempty"`
	TaxType     string     `json:"TaxType,omitempty"`
	Tracking    []Tracking `json:"Tracking,omitempty"`
}

// Invoice is the full receivable document submitted to the accounting API.
type Invoice struct {
	Type            string     `json:"Type"`
	Contact         Contact    `json:"Contact"`
	LineItems       []LineItem `json:"LineItems"`
	Date            string     `json:"Date"`
	DueDate         string     `json:"DueDate"`
	Reference       string     `json:"Reference,omitempty"`
	Status          string     `json:"Status"`
	LineAmountTypes string     `json:"LineAmountTypes"`
	BrandingThemeID string     `json:"BrandingThemeID,omitempty"`
}

// PaymentInvoiceRef points a payment at the invoice it settles.
type PaymentInvoiceRef struct {
	InvoiceID string `json:"InvoiceID"`
}

// PaymentAccountRef names the clearing account a payment posts against.
type PaymentAccountRef struct {
	Code string `json:"Code"`
}

// Payment settles an invoice in full against a clearing account. Amount is
// the total including tax.
type Payment struct {
	Invoice PaymentInvoiceRef `json:"Invoice"`
	Account PaymentAccountRef `json:"Account"`
	Date    string            `json:"Date"`
	Amount  float64           `json:"Amount"`
}

// CreatedInvoice is the vendor's view of an invoice after creation or fetch.
type CreatedInvoice struct {
	InvoiceID     string  `json:"InvoiceID"`
	InvoiceNumber string  `json:"InvoiceNumber"`
	Status        string  `json:"Status"`
	Reference     string  `json:"Reference"`
	Total         float64 `json:"Total"`
	AmountDue     float64 `json:"AmountDue"`
	AmountPaid    float64 `json:"AmountPaid"`
}
