// Package payment handles the round trip through the external hosted
// checkout: persisting auth state before the redirect, restoring it
// afterwards and activating the paid job listing.
package payment

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/worknest/worknest-go/api"
	"github.com/worknest/worknest-go/auth"
	clienterrors "github.com/worknest/worknest-go/internal/errors"
	"github.com/worknest/worknest-go/tokenstore"
)

const checkoutSessionPath = "/api/create-checkout-session"

// EnsureAuthentication re-establishes the session after the browser
// returns from the hosted payment page. It tries in-memory rehydration
// first, then falls back to the persisted auth marker's validity window.
// It never fails; every problem degrades to "not authenticated" and the
// caller redirects to login with a return path.
func EnsureAuthentication(authClient *auth.Client, store tokenstore.Store) bool {
	authClient.Rehydrate()
	if authClient.IsAuthenticated() {
		return true
	}

	if !store.ReadMarker() {
		return false
	}

	// The marker is fresh, so the token in the store is worth trusting
	authClient.Rehydrate()
	return authClient.IsAuthenticated()
}

// CheckoutSession is the hosted checkout created for a job listing.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// Client creates checkout sessions and activates listings once the
// payment is confirmed.
type Client struct {
	api   *api.Client
	auth  *auth.Client
	store tokenstore.Store
	log   zerolog.Logger
}

// NewClient creates a payment client.
func NewClient(apiClient *api.Client, authClient *auth.Client, store tokenstore.Store, log zerolog.Logger) *Client {
	if store == nil {
		store = tokenstore.NewNullStore()
	}
	return &Client{api: apiClient, auth: authClient, store: store, log: log}
}

// CreateCheckoutSession asks the checkout endpoint for a hosted payment
// URL for the given job and listing duration. The persisted auth marker
// is set before returning, so the session survives the redirect away
// and back.
func (c *Client) CreateCheckoutSession(ctx context.Context, jobID string, listingDuration int) (*CheckoutSession, error) {
	if jobID == "" {
		return nil, errors.Wrap(clienterrors.ErrInvalidCheckout, "job id is required")
	}
	if listingDuration <= 0 {
		return nil, errors.Wrap(clienterrors.ErrInvalidCheckout, "listing duration is required")
	}

	var session CheckoutSession
	err := c.auth.Do(ctx, func(ctx context.Context) error {
		session = CheckoutSession{}
		return c.api.Post(ctx, checkoutSessionPath, map[string]any{
			"jobId":           jobID,
			"listingDuration": listingDuration,
		}, &session)
	})
	if err != nil {
		return nil, err
	}

	// Leaving for an external page; make the session restorable on return
	c.store.SetMarker()
	c.log.Debug().Str("job_id", jobID).Msg("checkout session created, auth marker set")
	return &session, nil
}

// ActivateJob confirms the payment and flips the listing to ACTIVE. Run
// after the success redirect, once EnsureAuthentication has restored the
// session.
func (c *Client) ActivateJob(ctx context.Context, jobID, paymentSessionID string) error {
	if jobID == "" || paymentSessionID == "" {
		return errors.Wrap(clienterrors.ErrInvalidCheckout, "job id and payment session id are required")
	}
	return c.auth.Do(ctx, func(ctx context.Context) error {
		return c.api.Patch(ctx, "/api/jobs/"+jobID+"/", map[string]string{
			"status":             "ACTIVE",
			"payment_session_id": paymentSessionID,
		}, nil)
	})
}
