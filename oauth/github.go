package oauth

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var githubEndpoint = github.Endpoint

// exchangeCode is the plain code exchange used for providers without an
// ID token. The resulting provider access token is what the backend
// validates.
func exchangeCode(ctx context.Context, conf *oauth2.Config, code, verifier, _ string) (string, error) {
	token, err := conf.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", errors.Wrap(err, "exchanging authorization code")
	}
	return token.AccessToken, nil
}
