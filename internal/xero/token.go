package xero

import (
	"encoding/json"
	"time"
)

// defaultTokenLifetime applies when the vendor omits expires_in.
const defaultTokenLifetime = 1800 * time.Second

// TokenSet is the persisted OAuth credential record. It keeps the vendor's
// raw fields (id token, scope, token type and anything added later) so a
// refresh never strips data it does not understand.
type TokenSet struct {
	raw map[string]any
}

// NewTokenSet wraps a raw token record.
func NewTokenSet(raw map[string]any) *TokenSet {
	if raw == nil {
		raw = make(map[string]any)
	}
	return &TokenSet{raw: raw}
}

// AccessToken returns the current access credential, if any.
func (t *TokenSet) AccessToken() string {
	return t.stringField("access_token")
}

// RefreshToken returns the refresh credential, if any.
func (t *TokenSet) RefreshToken() string {
	return t.stringField("refresh_token")
}

// ExpiresAt returns the expiry as epoch seconds, zero when unknown.
func (t *TokenSet) ExpiresAt() int64 {
	if t == nil || t.raw == nil {
		return 0
	}
	switch v := t.raw["expires_at"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	}
	return 0
}

// Merge overlays a refresh response onto the current record, preserving
// fields the response does not carry, and stamps a fresh expiry computed
// from the vendor-declared lifetime (defaulting when omitted).
func (t *TokenSet) Merge(response map[string]any, now time.Time) *TokenSet {
	merged := make(map[string]any, len(t.raw)+len(response)+1)
	if t != nil {
		for k, v := range t.raw {
			merged[k] = v
		}
	}
	for k, v := range response {
		merged[k] = v
	}

	lifetime := defaultTokenLifetime
	switch v := response["expires_in"].(type) {
	case float64:
		if v > 0 {
			lifetime = time.Duration(v) * time.Second
		}
	case json.Number:
		if n, err := v.Int64(); err == nil && n > 0 {
			lifetime = time.Duration(n) * time.Second
		}
	}
	merged["expires_at"] = now.Add(lifetime).Unix()

	return &TokenSet{raw: merged}
}

// MarshalJSON serialises the full raw record, pruning nothing.
func (t *TokenSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.raw)
}

// UnmarshalJSON restores the raw record.
func (t *TokenSet) UnmarshalJSON(data []byte) error {
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.raw = raw
	return nil
}

func (t *TokenSet) stringField(key string) string {
	if t == nil || t.raw == nil {
		return ""
	}
	if value, ok := t.raw[key].(string); ok {
		return value
	}
	return ""
}
