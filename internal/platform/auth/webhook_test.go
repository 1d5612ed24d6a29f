package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sign(key, body string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func verifiedHandler(t *testing.T, verifier *WebhookVerifier) (http.Handler, *bool) {
	t.Helper()
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("downstream body read: %v", err)
		}
		w.Write(body)
	})
	return verifier.RequireSignature()(next), &called
}

func TestRequireSignatureValid(t *testing.T) {
	const key = "signing-key"
	const body = `{"events":[]}`

	handler, called := verifiedHandler(t, NewWebhookVerifier(key))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/xero", strings.NewReader(body))
	req.Header.Set(DefaultSignatureHeader, sign(key, body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !*called {
		t.Fatal("expected downstream handler to run")
	}
	// The body must be restored for the downstream handler.
	if rr.Body.String() != body {
		t.Fatalf("downstream saw body %q, want %q", rr.Body.String(), body)
	}
}

func TestRequireSignatureMismatch(t *testing.T) {
	handler, called := verifiedHandler(t, NewWebhookVerifier("signing-key"))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/xero", strings.NewReader(`{}`))
	req.Header.Set(DefaultSignatureHeader, sign("wrong-key", `{}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	// The intent-to-receive handshake requires a bare 401.
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rr.Body.String())
	}
	if *called {
		t.Fatal("downstream handler must not run on mismatch")
	}
}

func TestRequireSignatureMissingHeader(t *testing.T) {
	handler, called := verifiedHandler(t, NewWebhookVerifier("signing-key"))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/xero", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rr.Body.String())
	}
	if *called {
		t.Fatal("downstream handler must not run without a signature")
	}
}

func TestRequireSignatureWithoutKey(t *testing.T) {
	handler, called := verifiedHandler(t, NewWebhookVerifier(""))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/xero", strings.NewReader(`{}`))
	req.Header.Set(DefaultSignatureHeader, "anything")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a configured key, got %d", rr.Code)
	}
	if *called {
		t.Fatal("downstream handler must not run without a key")
	}
}

func TestRequireSignatureCustomHeader(t *testing.T) {
	const key = "signing-key"
	const body = `{}`

	verifier := NewWebhookVerifier(key, WithSignatureHeader("X-Custom-Signature"))
	handler, called := verifiedHandler(t, verifier)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/xero", strings.NewReader(body))
	req.Header.Set("X-Custom-Signature", sign(key, body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !*called {
		t.Fatal("expected downstream handler to run")
	}
}
