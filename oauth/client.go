// Package oauth drives the browser-based authorization-code sign-in.
//
// The flow mirrors the web client's popup handshake: open the system
// browser on the provider's consent screen, receive the redirect on a
// loopback listener, exchange the code for a provider credential and
// trade that credential with the WorkNest backend for a session.
//
// Each attempt is a small state machine (see Phase) with exactly two
// legitimate resolution sources: a callback delivery or the timeout.
// There is no reliable way to observe the user abandoning the consent
// screen, so a closed browser tab looks like "still pending" until the
// timeout fires. Cancel gives callers an explicit way out.
package oauth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/worknest/worknest-go/api"
	"github.com/worknest/worknest-go/auth"
	clienterrors "github.com/worknest/worknest-go/internal/errors"
)

const (
	googleExchangePath = "/api/auth/oauth/google/"
	githubExchangePath = "/api/auth/oauth/github/"

	googleCallbackPath = "/auth/google/callback"
	githubCallbackPath = "/auth/github/callback"

	// DefaultSignInTimeout bounds how long an attempt waits for the
	// provider callback before giving up.
	DefaultSignInTimeout = 5 * time.Minute
)

// GoogleConfig configures the Google provider.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	IssuerURL    string
}

// GitHubConfig configures the GitHub provider.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// exchangeFunc trades an authorization code for the provider credential
// that the backend accepts. Injected in tests.
type exchangeFunc func(ctx context.Context, conf *oauth2.Config, code, verifier, nonce string) (string, error)

// Client runs sign-in attempts against the configured providers.
type Client struct {
	api          *api.Client
	auth         *auth.Client
	google       GoogleConfig
	github       GitHubConfig
	callbackAddr string
	timeout      time.Duration
	log          zerolog.Logger
	openBrowser  func(url string) error

	googleExchange exchangeFunc
	githubExchange exchangeFunc

	mu      sync.Mutex
	current *attempt
	last    Phase
}

// Option configures a Client.
type Option func(*Client)

// WithGoogle sets the Google provider configuration.
func WithGoogle(cfg GoogleConfig) Option {
	return func(c *Client) { c.google = cfg }
}

// WithGitHub sets the GitHub provider configuration.
func WithGitHub(cfg GitHubConfig) Option {
	return func(c *Client) { c.github = cfg }
}

// WithTimeout overrides the attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCallbackAddr sets the loopback listen address (port 0 picks an
// ephemeral port).
func WithCallbackAddr(addr string) Option {
	return func(c *Client) { c.callbackAddr = addr }
}

// WithBrowserOpener replaces how the consent URL is opened.
func WithBrowserOpener(open func(url string) error) Option {
	return func(c *Client) { c.openBrowser = open }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// withGoogleExchange replaces the Google code exchange, for tests.
func withGoogleExchange(fn exchangeFunc) Option {
	return func(c *Client) { c.googleExchange = fn }
}

// withGitHubExchange replaces the GitHub code exchange, for tests.
func withGitHubExchange(fn exchangeFunc) Option {
	return func(c *Client) { c.githubExchange = fn }
}

// New creates an OAuth client on top of the API and auth clients.
func New(apiClient *api.Client, authClient *auth.Client, opts ...Option) *Client {
	c := &Client{
		api:          apiClient,
		auth:         authClient,
		callbackAddr: "127.0.0.1:0",
		timeout:      DefaultSignInTimeout,
		log:          zerolog.Nop(),
		openBrowser:  openBrowser,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.googleExchange == nil {
		c.googleExchange = newGoogleExchange(c.google.IssuerURL)
	}
	if c.githubExchange == nil {
		c.githubExchange = exchangeCode
	}
	return c
}

// SignInWithGoogle runs the Google authorization-code flow and returns
// the established session.
func (c *Client) SignInWithGoogle(ctx context.Context) (*auth.Response, error) {
	if c.google.ClientID == "" {
		return nil, clienterrors.ErrNotConfigured
	}
	conf := &oauth2.Config{
		ClientID:     c.google.ClientID,
		ClientSecret: c.google.ClientSecret,
		Endpoint:     googleEndpoint,
		Scopes:       c.google.Scopes,
	}
	return c.signIn(ctx, conf, googleCallbackPath, googleExchangePath, c.googleExchange)
}

// SignInWithGitHub runs the GitHub authorization-code flow.
func (c *Client) SignInWithGitHub(ctx context.Context) (*auth.Response, error) {
	if c.github.ClientID == "" {
		return nil, clienterrors.ErrNotConfigured
	}
	conf := &oauth2.Config{
		ClientID:     c.github.ClientID,
		ClientSecret: c.github.ClientSecret,
		Endpoint:     githubEndpoint,
		Scopes:       c.github.Scopes,
	}
	return c.signIn(ctx, conf, githubCallbackPath, githubExchangePath, c.githubExchange)
}

// Cancel resolves the in-flight attempt, if any, with ErrSignInCancelled.
// Safe to call at any time, including after the attempt finished.
func (c *Client) Cancel() {
	c.mu.Lock()
	att := c.current
	c.mu.Unlock()
	if att != nil {
		att.deliver(callbackResult{cancelled: true})
	}
}

// Phase reports the state of the in-flight attempt, or the terminal
// state of the most recent one.
func (c *Client) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return c.current.currentPhase()
	}
	return c.last
}

func (c *Client) signIn(ctx context.Context, conf *oauth2.Config, callbackPath, backendPath string, exchange exchangeFunc) (*auth.Response, error) {
	att := newAttempt(uuid.NewString(), uuid.NewString(), oauth2.GenerateVerifier())
	if err := c.begin(att); err != nil {
		return nil, err
	}
	defer c.finish(att)

	server, err := startCallbackServer(c.callbackAddr, callbackPath, func(res callbackResult) {
		if !att.deliver(res) {
			c.log.Debug().Msg("duplicate oauth callback ignored")
		}
	})
	if err != nil {
		att.setPhase(PhaseFailed)
		return nil, errors.Wrap(clienterrors.ErrCallbackListener, err.Error())
	}
	defer server.close()

	conf.RedirectURL = server.redirectURL
	authURL := conf.AuthCodeURL(att.state,
		oauth2.S256ChallengeOption(att.verifier),
		oauth2.SetAuthURLParam("nonce", att.nonce),
	)

	if err := c.openBrowser(authURL); err != nil {
		att.setPhase(PhaseFailed)
		return nil, errors.Wrap(clienterrors.ErrBrowserOpen, err.Error())
	}
	att.setPhase(PhaseBrowserOpened)
	c.log.Info().Str("url", authURL).Msg("waiting for sign-in in browser")

	att.setPhase(PhaseAwaitingCallback)
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	var res callbackResult
	select {
	case res = <-att.done:
	case <-timer.C:
		// Seal the attempt against late callbacks, then drain: a
		// callback that raced the deadline has already been delivered
		// and still wins over the timer.
		att.deliver(callbackResult{})
		res = <-att.done
		if res == (callbackResult{}) {
			att.setPhase(PhaseTimedOut)
			return nil, clienterrors.ErrSignInTimeout
		}
	case <-ctx.Done():
		att.deliver(callbackResult{cancelled: true})
		att.setPhase(PhaseCancelled)
		return nil, ctx.Err()
	}

	switch {
	case res.cancelled:
		att.setPhase(PhaseCancelled)
		return nil, clienterrors.ErrSignInCancelled
	case res.errCode != "":
		att.setPhase(PhaseFailed)
		return nil, errors.Errorf("[oauth] provider returned %s: %s", res.errCode, res.errDetail)
	case res.state != att.state:
		att.setPhase(PhaseFailed)
		return nil, clienterrors.ErrStateMismatch
	case res.code == "":
		att.setPhase(PhaseFailed)
		return nil, errors.New("[oauth] callback carried no authorization code")
	}

	credential, err := exchange(ctx, conf, res.code, att.verifier, att.nonce)
	if err != nil {
		att.setPhase(PhaseFailed)
		return nil, errors.Wrap(err, "[oauth] code exchange")
	}

	var resp auth.Response
	if err := c.api.Post(ctx, backendPath, map[string]string{"access_token": credential}, &resp); err != nil {
		att.setPhase(PhaseFailed)
		return nil, err
	}
	c.auth.SetAccessToken(resp.AccessToken)
	att.setPhase(PhaseExchanged)
	return &resp, nil
}

func (c *Client) begin(att *attempt) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return clienterrors.ErrSignInInProgress
	}
	c.current = att
	return nil
}

func (c *Client) finish(att *attempt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == att {
		c.last = att.currentPhase()
		c.current = nil
	}
}
