// Package session is the application-facing projection of the auth
// state: one concurrency-safe source of truth for the current user,
// whether a session exists and whether the initial check is still
// running. Subscribers are notified on every change.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/worknest/worknest-go/api"
	"github.com/worknest/worknest-go/auth"
	"github.com/worknest/worknest-go/oauth"
	"github.com/worknest/worknest-go/tokenstore"
)

// State is the snapshot handed to consumers and subscribers.
type State struct {
	User            *auth.User
	IsAuthenticated bool
	IsLoading       bool
}

// Manager wraps the auth and OAuth clients and keeps the user
// projection consistent with their outcomes.
type Manager struct {
	auth  *auth.Client
	oauth *oauth.Client
	store tokenstore.Store
	log   zerolog.Logger

	mu      sync.RWMutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a Manager. The state starts as loading until
// Initialize has run.
func NewManager(authClient *auth.Client, oauthClient *oauth.Client, store tokenstore.Store, opts ...Option) *Manager {
	if store == nil {
		store = tokenstore.NewNullStore()
	}
	m := &Manager{
		auth:  authClient,
		oauth: oauthClient,
		store: store,
		log:   zerolog.Nop(),
		state: State{IsLoading: true},
		subs:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the latest state snapshot.
func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers a callback invoked on every state change with the
// new snapshot. The returned function removes the subscription.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Initialize restores the session at process start. A persisted token
// that the auth client does not yet hold is rehydrated first, then the
// user is fetched with the degradation policy:
//
//   - 404: the auth endpoint is missing, not the session. Keep an
//     authenticated state with a placeholder user instead of bouncing
//     to login.
//   - 401/403 after the client's built-in refresh retry: the session is
//     truly dead, log out.
//   - anything else (network, 5xx): keep the current state and let the
//     caller try again later.
func (m *Manager) Initialize(ctx context.Context) {
	defer m.update(func(s *State) { s.IsLoading = false })

	if m.store.Token() != "" && !m.auth.IsAuthenticated() {
		m.log.Debug().Msg("rehydrating auth client from stored token")
		m.auth.Rehydrate()
	}
	if !m.auth.IsAuthenticated() {
		return
	}

	user, err := m.auth.GetUser(ctx)
	switch {
	case err == nil:
		m.setUser(user)
	case api.StatusOf(err) == 404:
		m.log.Warn().Msg("user endpoint missing, keeping degraded authenticated session")
		m.setUser(placeholderUser())
	case api.IsAuthError(err):
		m.log.Info().Msg("stored session rejected, logging out")
		m.auth.Logout(ctx)
		m.setUser(nil)
	default:
		m.log.Warn().Err(err).Msg("auth check failed, keeping current state")
	}
}

// Login signs in with credentials and updates the projection. Errors are
// returned untouched for caller-level handling.
func (m *Manager) Login(ctx context.Context, email, password string) (*auth.User, error) {
	m.update(func(s *State) { s.IsLoading = true })
	defer m.update(func(s *State) { s.IsLoading = false })

	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.setUser(&resp.User)
	return &resp.User, nil
}

// Signup registers a new account and updates the projection.
func (m *Manager) Signup(ctx context.Context, email, password, name string) (*auth.User, error) {
	m.update(func(s *State) { s.IsLoading = true })
	defer m.update(func(s *State) { s.IsLoading = false })

	resp, err := m.auth.Signup(ctx, auth.SignupData{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, err
	}
	m.setUser(&resp.User)
	return &resp.User, nil
}

// LoginWithGoogle runs the Google sign-in flow.
func (m *Manager) LoginWithGoogle(ctx context.Context) (*auth.User, error) {
	return m.loginWithProvider(ctx, m.oauth.SignInWithGoogle)
}

// LoginWithGitHub runs the GitHub sign-in flow.
func (m *Manager) LoginWithGitHub(ctx context.Context) (*auth.User, error) {
	return m.loginWithProvider(ctx, m.oauth.SignInWithGitHub)
}

func (m *Manager) loginWithProvider(ctx context.Context, signIn func(context.Context) (*auth.Response, error)) (*auth.User, error) {
	m.update(func(s *State) { s.IsLoading = true })
	defer m.update(func(s *State) { s.IsLoading = false })

	resp, err := signIn(ctx)
	if err != nil {
		return nil, err
	}
	m.setUser(&resp.User)
	return &resp.User, nil
}

// Logout clears the session. The local user is removed even when the
// server-side call fails.
func (m *Manager) Logout(ctx context.Context) {
	m.update(func(s *State) { s.IsLoading = true })
	defer m.update(func(s *State) { s.IsLoading = false })

	m.auth.Logout(ctx)
	m.setUser(nil)
}

// RefreshUser resyncs the user record. Any failure is treated as a
// session-invalid signal and forces a logout.
func (m *Manager) RefreshUser(ctx context.Context) error {
	if !m.auth.IsAuthenticated() {
		return nil
	}
	user, err := m.auth.GetUser(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("user refresh failed, logging out")
		m.Logout(ctx)
		return err
	}
	m.setUser(user)
	return nil
}

// CompleteOnboarding finishes onboarding and refreshes the projection.
func (m *Manager) CompleteOnboarding(ctx context.Context) error {
	user, err := m.auth.CompleteOnboarding(ctx)
	if err != nil {
		return err
	}
	m.setUser(user)
	return nil
}

func (m *Manager) setUser(user *auth.User) {
	m.update(func(s *State) {
		s.User = user
		s.IsAuthenticated = user != nil
	})
}

func (m *Manager) update(mutate func(*State)) {
	m.mu.Lock()
	mutate(&m.state)
	snapshot := m.state
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// placeholderUser keeps the UI usable when the backend user endpoint is
// misconfigured. Onboarding counts as done so gating does not push the
// user back into profile creation.
func placeholderUser() *auth.User {
	return &auth.User{Name: "Account", OnboardingCompleted: true}
}
