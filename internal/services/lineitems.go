package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/prodline/orderbridge/internal/domain"
)

// BuildLineItems converts an order's item collection into invoice lines.
//
// An explicit non-empty lineItems list on the payload is returned verbatim,
// bypassing derivation entirely. Otherwise the pl_order items map is walked
// in sorted-key order for reproducibility. Items are never filtered by
// quantity: free and shipping lines with quantity 0 must still appear.
//
// The upstream price field is the already-computed line total, not a
// per-unit price, so every output line carries Quantity 1 with UnitAmount
// set to that total; the parsed quantity appears only in the description.
func BuildLineItems(payload domain.OrderPayload, trackingLabel, accountCode string) []domain.LineItem {
	if len(payload.LineItems) > 0 {
		return payload.LineItems
	}

	if payload.Detail == nil || len(payload.Detail.Items) == 0 {
		return nil
	}

	var items map[string]domain.OrderItem
	if err := json.Unmarshal(payload.Detail.Items, &items); err != nil {
		// Upstream occasionally sends a non-object here; treat it as no items.
		return nil
	}

	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]domain.LineItem, 0, len(keys))
	for _, key := range keys {
		item := items[key]

		description := fmt.Sprintf("%s (Qty %s)", item.Title, parseQuantity(item.Quantity))
		if detail := strings.TrimSpace(item.Detail); detail != "" {
			description += " - " + detail
		}

		total, _ := parseAmount(item.Price)

		line := domain.LineItem{
			Description: description,
			Quantity:    1,
			UnitAmount:  total.InexactFloat64(),
			AccountCode: accountCode,
			TaxType:     MapTaxCode(item.TaxRate),
		}
		if trackingLabel != "" {
			line.Tracking = []domain.Tracking{{
				Name:   domain.TrackingCategoryBrand,
				Option: trackingLabel,
			}}
		}

		lines = append(lines, line)
	}

	return lines
}
