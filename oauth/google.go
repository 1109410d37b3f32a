package oauth

import (
	"context"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/worknest/worknest-go/internal/utils"
)

var googleEndpoint = google.Endpoint

const defaultGoogleIssuer = "https://accounts.google.com"

// newGoogleExchange builds the production Google exchange: redeem the
// authorization code, then verify the ID token signature and nonce
// before trusting the credential. The OIDC provider is resolved lazily
// and cached, so configuration alone never touches the network.
func newGoogleExchange(issuerURL string) exchangeFunc {
	issuerURL = utils.FirstNonEmpty(issuerURL, defaultGoogleIssuer)

	var (
		once     sync.Once
		provider *oidc.Provider
		initErr  error
	)

	return func(ctx context.Context, conf *oauth2.Config, code, verifier, nonce string) (string, error) {
		token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
		if err != nil {
			return "", errors.Wrap(err, "exchanging authorization code")
		}

		rawIDToken, ok := token.Extra("id_token").(string)
		if !ok {
			return "", errors.New("no ID token in exchange response")
		}

		once.Do(func() {
			provider, initErr = oidc.NewProvider(ctx, issuerURL)
		})
		if initErr != nil {
			return "", errors.Wrap(initErr, "resolving OIDC provider")
		}

		idToken, err := provider.Verifier(&oidc.Config{ClientID: conf.ClientID}).Verify(ctx, rawIDToken)
		if err != nil {
			return "", errors.Wrap(err, "verifying ID token")
		}

		var claims struct {
			Nonce string `json:"nonce"`
		}
		if err := idToken.Claims(&claims); err != nil {
			return "", errors.Wrap(err, "extracting ID token claims")
		}
		if claims.Nonce != nonce {
			return "", errors.New("ID token nonce mismatch")
		}

		return token.AccessToken, nil
	}
}
