package services

import "strings"

// brandRule pairs a category substring with its canonical tracking label.
// Rules are evaluated in fixed priority order; the key doubles as the
// branding-theme lookup key in configuration.
type brandRule struct {
	key   string
	label string
}

var brandRules = []brandRule{
	{key: "fieldline", label: "Fieldline"},
	{key: "northway", label: "Northway"},
	{key: "atlas", label: "Atlas"},
	{key: "crofton", label: "Crofton"},
}

// SelectBrandingTheme resolves a branding theme id for the customer
// category. The category is lowercase-matched against the brand substrings
// in priority order; web orders with no brand match fall back to the first
// brand's theme when configured. An empty result leaves the vendor default
// branding in effect.
func SelectBrandingTheme(category string, webOrder bool, themes map[string]string) string {
	lowered := strings.ToLower(category)
	for _, rule := range brandRules {
		if strings.Contains(lowered, rule.key) {
			return themes[rule.key]
		}
	}
	if webOrder {
		return themes[brandRules[0].key]
	}
	return ""
}

// SelectTrackingLabel resolves the canonical brand label for line-item
// tracking. Same matching order as SelectBrandingTheme, but the labels are
// fixed and need no configuration.
func SelectTrackingLabel(category string, webOrder bool) string {
	lowered := strings.ToLower(category)
	for _, rule := range brandRules {
		if strings.Contains(lowered, rule.key) {
			return rule.label
		}
	}
	if webOrder {
		return brandRules[0].label
	}
	return ""
}
