// Package auth owns the access token and the session lifecycle: login,
// signup, logout, user lookup, onboarding and token refresh.
//
// The client guarantees the refresh coordination contract: however many
// callers hit a 401 at once, exactly one HTTP refresh call goes out and
// every caller observes its outcome.
package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/worknest/worknest-go/api"
	clienterrors "github.com/worknest/worknest-go/internal/errors"
	"github.com/worknest/worknest-go/tokenstore"
)

const (
	signupPath             = "/api/auth/signup/"
	loginPath              = "/api/auth/login/"
	logoutPath             = "/api/auth/logout/"
	userPath               = "/api/auth/user/"
	refreshPath            = "/api/auth/token/refresh/"
	completeOnboardingPath = "/api/auth/onboarding/complete/"
	resetOnboardingPath    = "/api/auth/onboarding/reset/"
)

// Client is the authentication client. It mirrors every token change to
// the token store synchronously, so a new process observes the same
// session.
type Client struct {
	api   *api.Client
	store tokenstore.Store
	log   zerolog.Logger

	mu          sync.RWMutex
	accessToken string

	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates an authentication client and hydrates it from the token
// store, so a stored session is live before the first request.
func New(apiClient *api.Client, store tokenstore.Store, opts ...Option) *Client {
	if store == nil {
		store = tokenstore.NewNullStore()
	}
	c := &Client{
		api:   apiClient,
		store: store,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Rehydrate()
	return c
}

// Rehydrate re-reads the persisted token. Called at construction and
// again after external redirects, where the in-memory state of a fresh
// process lags the store.
func (c *Client) Rehydrate() {
	token := c.store.Token()
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
	c.api.SetAccessToken(token)
	if token != "" {
		c.log.Debug().Msg("auth client hydrated from stored token")
	}
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Response, error) {
	var resp Response
	if err := c.api.Post(ctx, loginPath, Credentials{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.setAccessToken(resp.AccessToken)
	return &resp, nil
}

// Signup registers a new account and starts a session.
func (c *Client) Signup(ctx context.Context, data SignupData) (*Response, error) {
	if data.ConfirmPassword == "" {
		data.ConfirmPassword = data.Password
	}
	var resp Response
	if err := c.api.Post(ctx, signupPath, data, &resp); err != nil {
		return nil, err
	}
	c.setAccessToken(resp.AccessToken)
	return &resp, nil
}

// Logout notifies the backend best-effort and unconditionally clears the
// local session. It never fails and is safe to call repeatedly.
func (c *Client) Logout(ctx context.Context) {
	if err := c.api.Post(ctx, logoutPath, nil, nil); err != nil {
		c.log.Warn().Err(err).Msg("logout call failed, clearing local session anyway")
	}
	c.clearTokens()
}

// GetUser fetches the current account. It fails fast without a token and
// performs exactly one refresh-then-retry on a 401 before surfacing the
// failure.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	if !c.IsAuthenticated() {
		return nil, clienterrors.ErrNoToken
	}

	var user User
	err := c.api.Get(ctx, userPath, &user)
	if api.StatusOf(err) == 401 {
		if _, refreshErr := c.RefreshToken(ctx); refreshErr != nil {
			return nil, refreshErr
		}
		user = User{}
		err = c.api.Get(ctx, userPath, &user)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshToken obtains a fresh access token. Concurrent callers share a
// single in-flight HTTP call and all receive its token or its error. An
// unrecoverable refresh clears the local session.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	token, err, shared := c.refreshGroup.Do("refresh", func() (any, error) {
		var resp struct {
			AccessToken string `json:"access_token"`
		}
		if err := c.api.Post(ctx, refreshPath, nil, &resp); err != nil {
			c.clearTokens()
			return "", err
		}
		c.setAccessToken(resp.AccessToken)
		return resp.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.log.Debug().Msg("refresh joined an in-flight call")
	}
	return token.(string), nil
}

// CompleteOnboarding marks onboarding as finished and returns the
// updated user. Retries once after a refresh on 401.
func (c *Client) CompleteOnboarding(ctx context.Context) (*User, error) {
	return c.postForUser(ctx, completeOnboardingPath)
}

// ResetOnboarding reopens onboarding, for switching account roles.
func (c *Client) ResetOnboarding(ctx context.Context) (*User, error) {
	return c.postForUser(ctx, resetOnboardingPath)
}

func (c *Client) postForUser(ctx context.Context, path string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.api.Post(ctx, path, nil, &resp)
	if api.StatusOf(err) == 401 {
		if _, refreshErr := c.RefreshToken(ctx); refreshErr != nil {
			return nil, refreshErr
		}
		resp.User = User{}
		err = c.api.Post(ctx, path, nil, &resp)
	}
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Do runs an authenticated call with the standard retry policy: on a
// 401 it refreshes once and reruns fn. Higher-level clients (jobs,
// payments) route their requests through here.
func (c *Client) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if api.StatusOf(err) != 401 {
		return err
	}
	if _, refreshErr := c.RefreshToken(ctx); refreshErr != nil {
		return refreshErr
	}
	return fn(ctx)
}

// SetAccessToken installs a token obtained outside the password flow,
// such as the OAuth exchange result.
func (c *Client) SetAccessToken(token string) {
	if token == "" {
		c.clearTokens()
		return
	}
	c.setAccessToken(token)
}

// AccessToken returns the current access token, or "".
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// IsAuthenticated reports whether a token is held.
func (c *Client) IsAuthenticated() bool {
	return c.AccessToken() != ""
}

// TokenExpiringSoon reports whether the held access token expires within
// the given window. The claim is read without signature verification;
// the backend remains the authority and a wrong guess only costs an
// extra refresh. Opaque tokens never report as expiring.
func (c *Client) TokenExpiringSoon(within time.Duration) bool {
	token := c.AccessToken()
	if token == "" || strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < within
}

func (c *Client) setAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
	c.api.SetAccessToken(token)
	c.store.SetToken(token)
}

func (c *Client) clearTokens() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
	c.api.SetAccessToken("")
	c.store.Clear()
}
