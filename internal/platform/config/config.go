package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second

	defaultXeroIdentityURL = "https://identity.xero.com"
	defaultXeroAPIURL      = "https://api.xero.com"
	defaultXeroTimeout     = 10 * time.Second
	defaultTokenFile       = "xero-token.json"
	defaultSalesAccount    = "200"

	defaultHubTimeout = 10 * time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Xero     XeroConfig
	Hub      HubConfig
	Branding BrandingConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// XeroConfig stores accounting vendor credentials and endpoints.
type XeroConfig struct {
	ClientID     string
	ClientSecret string

	// IdentityBaseURL hosts the OAuth token endpoint; APIBaseURL hosts the
	// connections list and the accounting API.
	IdentityBaseURL string
	APIBaseURL      string

	// TokenFile is the single on-disk slot the refreshed token set is
	// persisted to. The external consent flow seeds it.
	TokenFile string

	Timeout    time.Duration
	WebhookKey string

	// SalesAccountCode is the revenue account invoice lines post to.
	// PaymentAccountCode and ClearingAccountCode are the two alternate
	// sources for the clearing account used by mark-as-paid payments.
	SalesAccountCode    string
	PaymentAccountCode  string
	ClearingAccountCode string
}

// HubConfig stores order-management system access parameters.
type HubConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// BrandingConfig maps brand keys to the vendor's branding theme identifiers.
// Unset themes leave the vendor default branding in effect.
type BrandingConfig struct {
	Themes map[string]string
}

// ValidationError is returned when required configuration fields are missing.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvMap overrides environment values, primarily for tests.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables fallback to the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load reads configuration from the environment with per-field defaults.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "BRIDGE_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "BRIDGE_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "BRIDGE_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "BRIDGE_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Xero: XeroConfig{
			ClientID:            stringWithDefault(lookup, "BRIDGE_XERO_CLIENT_ID", ""),
			ClientSecret:        stringWithDefault(lookup, "BRIDGE_XERO_CLIENT_SECRET", ""),
			IdentityBaseURL:     stringWithDefault(lookup, "BRIDGE_XERO_IDENTITY_URL", defaultXeroIdentityURL),
			APIBaseURL:          stringWithDefault(lookup, "BRIDGE_XERO_API_URL", defaultXeroAPIURL),
			TokenFile:           stringWithDefault(lookup, "BRIDGE_XERO_TOKEN_FILE", defaultTokenFile),
			Timeout:             durationWithDefault(lookup, "BRIDGE_XERO_TIMEOUT", defaultXeroTimeout),
			WebhookKey:          stringWithDefault(lookup, "BRIDGE_XERO_WEBHOOK_KEY", ""),
			SalesAccountCode:    stringWithDefault(lookup, "BRIDGE_XERO_SALES_ACCOUNT", defaultSalesAccount),
			PaymentAccountCode:  stringWithDefault(lookup, "BRIDGE_XERO_PAYMENT_ACCOUNT", ""),
			ClearingAccountCode: stringWithDefault(lookup, "BRIDGE_XERO_CLEARING_ACCOUNT", ""),
		},
		Hub: HubConfig{
			BaseURL: stringWithDefault(lookup, "BRIDGE_HUB_BASE_URL", ""),
			APIKey:  stringWithDefault(lookup, "BRIDGE_HUB_API_KEY", ""),
			Timeout: durationWithDefault(lookup, "BRIDGE_HUB_TIMEOUT", defaultHubTimeout),
		},
		Branding: BrandingConfig{
			Themes: mapWithDefault(lookup, "BRIDGE_BRANDING_THEMES"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string
	if strings.TrimSpace(cfg.Xero.ClientID) == "" {
		missing = append(missing, "Xero.ClientID")
	}
	if strings.TrimSpace(cfg.Xero.ClientSecret) == "" {
		missing = append(missing, "Xero.ClientSecret")
	}
	if strings.TrimSpace(cfg.Xero.TokenFile) == "" {
		missing = append(missing, "Xero.TokenFile")
	}
	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func mapWithDefault(lookup func(string) (string, bool), key string) map[string]string {
	values := make(map[string]string)
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return values
	}
	entries := strings.Split(raw, ",")
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if name == "" || value == "" {
			continue
		}
		values[name] = value
	}
	return values
}
