// Package errors holds the sentinel error values shared across the
// WorkNest client packages.
package errors

import "errors"

var (
	// ErrNoToken is returned by operations that need a session when no
	// access token is held.
	ErrNoToken = errors.New("no access token available")

	// OAuth sign-in errors
	ErrNotConfigured    = errors.New("oauth client id not configured")
	ErrBrowserOpen      = errors.New("could not open browser for sign-in")
	ErrCallbackListener = errors.New("could not start callback listener")
	ErrSignInTimeout    = errors.New("sign-in timed out waiting for callback")
	ErrSignInCancelled  = errors.New("sign-in cancelled")
	ErrSignInInProgress = errors.New("a sign-in attempt is already in progress")
	ErrStateMismatch    = errors.New("callback state does not match sign-in attempt")

	// ErrInvalidCheckout rejects checkout or activation calls with
	// missing identifiers before they reach the backend.
	ErrInvalidCheckout = errors.New("invalid checkout session")
)
