package xero

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTokenSetMergePreservesUnknownFields(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	current := NewTokenSet(map[string]any{
		"access_token":  "old-access",
		"refresh_token": "old-refresh",
		"id_token":      "opaque-id-token",
		"scope":         "accounting.transactions offline_access",
		"vendor_extra":  "keep-me",
	})

	merged := current.Merge(map[string]any{
		"access_token":  "new-access",
		"refresh_token": "new-refresh",
		"expires_in":    float64(1800),
		"token_type":    "Bearer",
	}, now)

	if merged.AccessToken() != "new-access" {
		t.Fatalf("access token not replaced: %q", merged.AccessToken())
	}
	if merged.RefreshToken() != "new-refresh" {
		t.Fatalf("refresh token not replaced: %q", merged.RefreshToken())
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		t.Fatalf("marshal merged token: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode merged token: %v", err)
	}
	if decoded["id_token"] != "opaque-id-token" {
		t.Fatal("id_token dropped by merge")
	}
	if decoded["vendor_extra"] != "keep-me" {
		t.Fatal("unknown vendor field dropped by merge")
	}
	if decoded["token_type"] != "Bearer" {
		t.Fatal("new response field missing after merge")
	}
}

func TestTokenSetMergeStampsExpiry(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		response map[string]any
		want     int64
	}{
		{
			name:     "declared lifetime",
			response: map[string]any{"expires_in": float64(3600)},
			want:     now.Add(time.Hour).Unix(),
		},
		{
			name:     "missing lifetime defaults",
			response: map[string]any{},
			want:     now.Add(1800 * time.Second).Unix(),
		},
		{
			name:     "non-positive lifetime defaults",
			response: map[string]any{"expires_in": float64(0)},
			want:     now.Add(1800 * time.Second).Unix(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			merged := NewTokenSet(nil).Merge(tc.response, now)
			if got := merged.ExpiresAt(); got != tc.want {
				t.Fatalf("expires_at = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTokenSetAccessorsOnEmptyRecord(t *testing.T) {
	token := NewTokenSet(nil)
	if token.AccessToken() != "" || token.RefreshToken() != "" || token.ExpiresAt() != 0 {
		t.Fatal("empty record must report zero values")
	}

	var nilToken *TokenSet
	if nilToken.AccessToken() != "" || nilToken.RefreshToken() != "" || nilToken.ExpiresAt() != 0 {
		t.Fatal("nil record must report zero values")
	}
}

func TestTokenSetRoundTrip(t *testing.T) {
	original := NewTokenSet(map[string]any{
		"access_token":  "a",
		"refresh_token": "r",
		"expires_at":    float64(1770000000),
	})

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := &TokenSet{}
	if err := json.Unmarshal(raw, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.AccessToken() != "a" || restored.RefreshToken() != "r" {
		t.Fatal("round trip lost credential fields")
	}
	if restored.ExpiresAt() != 1770000000 {
		t.Fatalf("round trip lost expiry: %d", restored.ExpiresAt())
	}
}
