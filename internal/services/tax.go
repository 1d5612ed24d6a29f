package services

import (
	"strconv"
	"strings"

	"github.com/prodline/orderbridge/internal/domain"
)

// MapTaxCode translates a human-entered tax-rate string ("20", "20%", "5.0")
// into the ledger's tax type code. Matching is exact: 0, 5 and 20 map to
// fixed codes and every other value, including unparsable or missing input,
// falls back to the standard rate code.
func MapTaxCode(rate string) string {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rate), "%"))
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return domain.TaxCodeStandard
	}

	switch value {
	case 0:
		return domain.TaxCodeExempt
	case 20:
		return domain.TaxCodeStandard
	case 5:
		return domain.TaxCodeReduced
	default:
		return domain.TaxCodeStandard
	}
}
