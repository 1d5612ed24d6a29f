package domain

import "encoding/json"

// OrderPayload is the loosely structured order document posted by the
// workflow automation tool. No schema is enforced upstream: every field is
// optional and consumers must default missing values explicitly.
type OrderPayload struct {
	OrderNumber   string `json:"order_number"`
	OrderPO       string `json:"order_po"`
	CustomerName  string `json:"customer_name"`
	Contact       string `json:"contact"`
	Email         string `json:"email"`
	CustomerEmail string `json:"customer_email"`
	Template      string `json:"template"`
	CustomerType  string `json:"customer_type"`
	TotalExVAT    any    `json:"total_ex_vat"`
	VAT           any    `json:"vat"`

	// MarkAsPaid and EmailCustomer arrive as booleans or free-text strings
	// depending on which workflow produced the payload.
	MarkAsPaid    any `json:"mark_as_paid"`
	EmailCustomer any `json:"email_customer"`

	Detail *OrderDetail `json:"pl_order"`

	// LineItems is an escape hatch for direct integrations: when present and
	// non-empty it is submitted verbatim and no item derivation runs.
	LineItems []LineItem `json:"lineItems"`
}

// OrderDetail is the nested customer-order block carried under pl_order.
type OrderDetail struct {
	CustomerName  string `json:"customer_name"`
	Contact       string `json:"contact"`
	Email         string `json:"email"`
	CustomerEmail string `json:"customer_email"`
	Date          string `json:"date"`
	DueDate       string `json:"due_date"`
	TotalExVAT    any    `json:"total_ex_vat"`
	VAT           any    `json:"vat"`

	// Items is kept raw because upstream occasionally sends a non-object
	// value here; consumers decode it tolerantly and fall back to no items.
	Items json.RawMessage `json:"items"`
}

// OrderItem is a single entry of the pl_order items map. Quantity and Price
// may be numbers or numeric strings. Price is the already-computed line
// total, not a per-unit price.
type OrderItem struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Quantity any    `json:"quantity"`
	Price    any    `json:"price"`
	TaxRate  string `json:"tax_rate"`
}

// DerivedContext carries the flags and identifiers derived once per request
// from an order payload. It is immutable after creation and never persisted.
type DerivedContext struct {
	Template        string
	WebOrder        bool
	Category        string
	BrandingThemeID string
	TrackingLabel   string
	MarkAsPaid      bool
	EmailCustomer   bool
	ClearingAccount string
}
