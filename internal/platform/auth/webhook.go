package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/prodline/orderbridge/internal/platform/requestctx"
)

// DefaultSignatureHeader carries the vendor's base64 HMAC-SHA256 of the raw
// request body, keyed with the webhook signing key.
const DefaultSignatureHeader = "X-Xero-Signature"

// WebhookVerifier validates vendor webhook deliveries. The vendor's
// intent-to-receive handshake sends deliberately bad signatures and expects
// an empty-bodied 401; correctly signed deliveries expect a 200.
type WebhookVerifier struct {
	key    []byte
	header string
}

// WebhookOption customises the verifier.
type WebhookOption func(*WebhookVerifier)

// WithSignatureHeader overrides the signature header name.
func WithSignatureHeader(header string) WebhookOption {
	return func(v *WebhookVerifier) {
		if header != "" {
			v.header = header
		}
	}
}

// NewWebhookVerifier builds a verifier for the given signing key.
func NewWebhookVerifier(signingKey string, opts ...WebhookOption) *WebhookVerifier {
	v := &WebhookVerifier{
		key:    []byte(signingKey),
		header: DefaultSignatureHeader,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// RequireSignature enforces a valid body signature on the request. The body
// is restored for downstream handlers after verification.
func (v *WebhookVerifier) RequireSignature() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := requestctx.Logger(ctx)

			if len(v.key) == 0 {
				logger.Error("webhook signing key not configured")
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}

			signature := strings.TrimSpace(r.Header.Get(v.header))
			if signature == "" {
				logger.Warn("webhook signature header missing")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			body, err := readAndRestoreBody(r)
			if err != nil {
				logger.Warn("webhook body unreadable", zap.Error(err))
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			expected := computeSignature(v.key, body)
			if !hmac.Equal([]byte(signature), []byte(expected)) {
				logger.Warn("webhook signature mismatch")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func computeSignature(key, body []byte) string {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	buf, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body = io.NopCloser(bytes.NewReader(buf))
	return buf, nil
}
