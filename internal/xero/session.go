package xero

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/prodline/orderbridge/internal/domain"
)

// sessionAPI is the slice of the vendor client the session depends on,
// narrow enough to stub in tests.
type sessionAPI interface {
	RefreshToken(ctx context.Context, refreshToken string) (map[string]any, error)
	Connections(ctx context.Context, accessToken string) ([]Connection, error)
	CreateInvoice(ctx context.Context, cred Credential, invoice domain.Invoice) (domain.CreatedInvoice, error)
	GetInvoice(ctx context.Context, cred Credential, invoiceID string) (domain.CreatedInvoice, error)
	CreatePayment(ctx context.Context, cred Credential, payment domain.Payment) error
	EmailInvoice(ctx context.Context, cred Credential, invoiceID string) error
}

// SessionConfig configures the token lifecycle session.
type SessionConfig struct {
	API   sessionAPI
	Store TokenStore
	Clock func() time.Time
}

// Session owns the OAuth credential lifecycle and tenant resolution. It is
// an explicit object passed into every vendor-facing operation; there is no
// package-level token state.
//
// EnsureReady refreshes the token unconditionally, even when the local
// expiry has not passed: the vendor may have already rejected a token the
// local clock still considers valid. Concurrent callers share a single
// in-flight refresh instead of issuing duplicate vendor calls.
type Session struct {
	api   sessionAPI
	store TokenStore
	clock func() time.Time

	mu       sync.Mutex
	token    *TokenSet
	tenantID string

	group singleflight.Group
}

// NewSession constructs a session and loads any previously persisted token.
// A missing token file is not an error: the session stays unauthenticated
// until the external consent flow seeds the store.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.API == nil {
		return nil, errors.New("xero: session api is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("xero: token store is required")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Session{
		api:   cfg.API,
		store: cfg.Store,
		clock: func() time.Time {
			return clock().UTC()
		},
	}

	token, err := cfg.Store.Load()
	if err != nil {
		return nil, err
	}
	s.token = token

	return s, nil
}

// EnsureReady refreshes the credential and resolves the target tenant.
// Idempotent and safe to call before every outbound request; returns the
// selected tenant id or a descriptive failure.
func (s *Session) EnsureReady(ctx context.Context) (string, error) {
	refresh, err := s.currentRefreshToken()
	if err != nil {
		return "", err
	}
	if refresh == "" {
		return "", ErrNotAuthenticated
	}

	result, err, _ := s.group.Do("refresh", func() (any, error) {
		return s.refreshAndResolve(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Authenticated reports whether a usable refresh credential is present,
// without touching the vendor. Used by the readiness probe.
func (s *Session) Authenticated() bool {
	refresh, err := s.currentRefreshToken()
	return err == nil && refresh != ""
}

// TenantID returns the most recently resolved tenant id, empty before the
// first successful EnsureReady.
func (s *Session) TenantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tenantID
}

// CreateInvoice submits an invoice under the current credential.
func (s *Session) CreateInvoice(ctx context.Context, tenantID string, invoice domain.Invoice) (domain.CreatedInvoice, error) {
	return s.api.CreateInvoice(ctx, s.credential(tenantID), invoice)
}

// GetInvoice fetches an invoice under the current credential.
func (s *Session) GetInvoice(ctx context.Context, tenantID, invoiceID string) (domain.CreatedInvoice, error) {
	return s.api.GetInvoice(ctx, s.credential(tenantID), invoiceID)
}

// CreatePayment records a payment under the current credential.
func (s *Session) CreatePayment(ctx context.Context, tenantID string, payment domain.Payment) error {
	return s.api.CreatePayment(ctx, s.credential(tenantID), payment)
}

// EmailInvoice emails an invoice under the current credential.
func (s *Session) EmailInvoice(ctx context.Context, tenantID, invoiceID string) error {
	return s.api.EmailInvoice(ctx, s.credential(tenantID), invoiceID)
}

func (s *Session) credential(tenantID string) Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Credential{
		AccessToken: s.token.AccessToken(),
		TenantID:    tenantID,
	}
}

// currentRefreshToken returns the in-memory refresh credential, reloading
// from disk when memory has none: the consent flow may have replaced the
// file since process start.
func (s *Session) currentRefreshToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil || s.token.RefreshToken() == "" {
		loaded, err := s.store.Load()
		if err != nil {
			return "", err
		}
		if loaded != nil {
			s.token = loaded
		}
	}
	if s.token == nil {
		return "", nil
	}
	return s.token.RefreshToken(), nil
}

func (s *Session) refreshAndResolve(ctx context.Context) (string, error) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == nil || token.RefreshToken() == "" {
		return "", ErrNotAuthenticated
	}

	response, err := s.api.RefreshToken(ctx, token.RefreshToken())
	if err != nil {
		return "", err
	}

	merged := token.Merge(response, s.clock())
	if err := s.store.Save(merged); err != nil {
		return "", fmt.Errorf("xero: persist token: %w", err)
	}

	s.mu.Lock()
	s.token = merged
	s.mu.Unlock()

	connections, err := s.api.Connections(ctx, merged.AccessToken())
	if err != nil {
		return "", fmt.Errorf("xero: resolve organisations: %w", err)
	}
	if len(connections) == 0 {
		return "", ErrNoTenant
	}

	tenantID := connections[0].TenantID
	s.mu.Lock()
	s.tenantID = tenantID
	s.mu.Unlock()

	return tenantID, nil
}
