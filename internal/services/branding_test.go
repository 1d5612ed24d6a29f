package services

import "testing"

func TestSelectTrackingLabel(t *testing.T) {
	cases := []struct {
		name     string
		category string
		webOrder bool
		want     string
	}{
		{name: "exact brand", category: "fieldline", want: "Fieldline"},
		{name: "brand inside longer category", category: "northway-trade", want: "Northway"},
		{name: "case insensitive", category: "Atlas Retail", want: "Atlas"},
		{name: "crofton", category: "crofton-wholesale", want: "Crofton"},
		{name: "no match non-web", category: "trade", want: ""},
		{name: "no match web falls back", category: "trade", webOrder: true, want: "Fieldline"},
		{name: "empty non-web", category: "", want: ""},
		{name: "empty web falls back", category: "", webOrder: true, want: "Fieldline"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SelectTrackingLabel(tc.category, tc.webOrder); got != tc.want {
				t.Fatalf("SelectTrackingLabel(%q, %t) = %q, want %q", tc.category, tc.webOrder, got, tc.want)
			}
		})
	}
}

func TestSelectBrandingTheme(t *testing.T) {
	themes := map[string]string{
		"fieldline": "theme-field",
		"northway":  "theme-north",
		"atlas":     "theme-atlas",
	}

	cases := []struct {
		name     string
		category string
		webOrder bool
		want     string
	}{
		{name: "configured brand", category: "northway", want: "theme-north"},
		{name: "matched brand without theme yields empty", category: "crofton", want: ""},
		{name: "web fallback uses first brand theme", category: "trade", webOrder: true, want: "theme-field"},
		{name: "non-web no match", category: "trade", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SelectBrandingTheme(tc.category, tc.webOrder, themes); got != tc.want {
				t.Fatalf("SelectBrandingTheme(%q, %t) = %q, want %q", tc.category, tc.webOrder, got, tc.want)
			}
		})
	}
}

func TestSelectBrandingThemeNilConfig(t *testing.T) {
	if got := SelectBrandingTheme("fieldline", true, nil); got != "" {
		t.Fatalf("expected empty theme with nil config, got %q", got)
	}
}
