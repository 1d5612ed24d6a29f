package services

import (
	"strings"

	"github.com/prodline/orderbridge/internal/domain"
)

const (
	// webOrderPrefix marks purchase-order references raised by the web store.
	webOrderPrefix = "WEB-"

	// templateWebStore is the one template value with a hardwired canonical
	// category; every other template passes through as its own category.
	templateWebStore = "fieldline-web"
	webStoreCategory = "Fieldline"

	// fallbackClearingAccount applies when neither configured clearing
	// account source is set.
	fallbackClearingAccount = "090"
)

// MapperConfig carries the configuration the mapping core depends on.
type MapperConfig struct {
	Themes              map[string]string
	SalesAccountCode    string
	PaymentAccountCode  string
	ClearingAccountCode string
}

// DeriveContext inspects an order payload and produces the derived flags and
// identifiers the invoice build depends on. Pure function, no I/O.
func DeriveContext(payload domain.OrderPayload, cfg MapperConfig) domain.DerivedContext {
	webOrder := strings.HasPrefix(payload.OrderPO, webOrderPrefix)

	template := payload.Template
	if template == "" {
		template = payload.CustomerType
	}

	category := template
	if strings.EqualFold(template, templateWebStore) {
		category = webStoreCategory
	}

	label := SelectTrackingLabel(category, webOrder)
	if label == "" {
		label = category
	}

	clearing := cfg.PaymentAccountCode
	if clearing == "" {
		clearing = cfg.ClearingAccountCode
	}
	if clearing == "" {
		clearing = fallbackClearingAccount
	}

	return domain.DerivedContext{
		Template:        template,
		WebOrder:        webOrder,
		Category:        category,
		BrandingThemeID: SelectBrandingTheme(category, webOrder, cfg.Themes),
		TrackingLabel:   label,
		MarkAsPaid:      ToBool(payload.MarkAsPaid),
		EmailCustomer:   ToBool(payload.EmailCustomer),
		ClearingAccount: clearing,
	}
}

// ToBool coerces a loosely typed flag: literal booleans and the strings
// "true", "1" and "yes" (case-insensitive) are true; everything else,
// including absent values, is false.
func ToBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true
		}
	}
	return false
}
