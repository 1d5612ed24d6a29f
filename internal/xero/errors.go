package xero

import "errors"

// Sentinel failures of the vendor integration. Callers branch with
// errors.Is; vendor detail is wrapped alongside where available.
var (
	// ErrNotAuthenticated means no usable refresh credential exists in
	// memory or on disk; the external consent flow must be re-run.
	ErrNotAuthenticated = errors.New("xero: not authenticated")

	// ErrRefreshFailed means the vendor rejected the refresh credential.
	ErrRefreshFailed = errors.New("xero: token refresh failed")

	// ErrNoTenant means the credential is valid but no organisations are
	// connected to it.
	ErrNoTenant = errors.New("xero: no organisations connected")

	// ErrVendorRejected means an accounting API call returned an error body.
	ErrVendorRejected = errors.New("xero: request rejected")
)
