package domain

// Webhook event discriminators. The vendor sends these upper-cased; the
// bridge compares case-insensitively.
const (
	EventCategoryInvoice = "INVOICE"
	EventTypeUpdate      = "UPDATE"
)

// PlaceholderResourceID is the test resource id the vendor includes in
// intent-to-receive probes; events carrying it are ignored.
const PlaceholderResourceID = "00000000-0000-0000-0000-000000000000"

// WebhookEvent is a single entry of a vendor webhook delivery.
type WebhookEvent struct {
	ResourceID    string `json:"resourceId"`
	ResourceURL   string `json:"resourceUrl"`
	EventCategory string `json:"eventCategory"`
	EventType     string `json:"eventType"`
	TenantID      string `json:"tenantId"`
	EventDateUTC  string `json:"eventDateUtc"`
}

// WebhookPayload is the envelope of a vendor webhook delivery.
type WebhookPayload struct {
	Events             []WebhookEvent `json:"events"`
	FirstEventSequence int64          `json:"firstEventSequence"`
	LastEventSequence  int64          `json:"lastEventSequence"`
}
