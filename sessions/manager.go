package sessions

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/internal/metrics"
	"github.com/jrsteele09/legalcase-console/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	defaultLandingAuthenticated = "/u/companies"
	defaultLandingAnonymous     = "/login"
)

var _ oauth2.TokenSource = (*Manager)(nil)

// Authenticator is the part of the REST API the session manager drives.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*oauth2.Token, error)
	Refresh(ctx context.Context) (*oauth2.Token, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*users.User, error)
}

// NavigateFunc moves the user to another area of the console once a login
// or logout has completed.
type NavigateFunc func(to string)

// CredentialListener is told about every credential change. It runs before
// the operation that changed the credential returns.
type CredentialListener func(token *oauth2.Token)

// Manager is the single owner of the session: the access credential, the
// user it belongs to and whether the startup refresh has finished. Only its
// own operations write that state.
type Manager struct {
	auth Authenticator

	// writeLock serialises login, logout and refresh so a slow refresh can
	// never overwrite the outcome of a later login.
	writeLock sync.Mutex

	lock           sync.RWMutex
	token          *oauth2.Token
	user           *users.User
	refreshStarted bool
	resolved       bool
	resolvedCh     chan struct{}
	listeners      []CredentialListener

	landingAuthenticated string
	landingAnonymous     string
	clearCookies         func() error
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLandingPaths sets where login and logout navigate to.
func WithLandingPaths(authenticated, anonymous string) ManagerOption {
	return func(m *Manager) {
		if authenticated != "" {
			m.landingAuthenticated = authenticated
		}
		if anonymous != "" {
			m.landingAnonymous = anonymous
		}
	}
}

// WithCookieClearer drops the local copy of the refresh cookie on logout, so
// a logout the server never saw cannot be resurrected by the next startup.
func WithCookieClearer(clear func() error) ManagerOption {
	return func(m *Manager) {
		m.clearCookies = clear
	}
}

// NewManager creates an unresolved session manager.
func NewManager(auth Authenticator, options ...ManagerOption) (*Manager, error) {
	if auth == nil {
		return nil, errors.New("[NewManager] authenticator is required")
	}

	m := &Manager{
		auth:                 auth,
		resolvedCh:           make(chan struct{}),
		landingAuthenticated: defaultLandingAuthenticated,
		landingAnonymous:     defaultLandingAnonymous,
	}
	for _, opt := range options {
		opt(m)
	}
	m.publishPhase()
	return m, nil
}

// Subscribe registers l for credential changes and immediately hands it
// the current credential.
func (m *Manager) Subscribe(l CredentialListener) {
	m.writeLock.Lock()
	defer m.writeLock.Unlock()

	m.lock.Lock()
	m.listeners = append(m.listeners, l)
	token := m.token
	m.lock.Unlock()

	l(token)
}

// Login submits the credentials, stores the returned access token, fetches
// the user with it and then navigates to the authenticated landing area.
// A rejected attempt fails with errors.ErrInvalidCredentials wrapping the
// API's response.
func (m *Manager) Login(ctx context.Context, username, password string, navigate NavigateFunc) error {
	m.writeLock.Lock()
	defer m.writeLock.Unlock()

	token, err := m.auth.Login(ctx, username, password)
	if err != nil {
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("[Manager.Login] %w: %w", errors.ErrInvalidCredentials, err)
		}
		return fmt.Errorf("[Manager.Login] %w", err)
	}
	m.setCredential(token)

	user, err := m.auth.Me(ctx)
	if err != nil {
		// The credential was accepted; the profile is cosmetic.
		log.Warn().Err(err).Str("username", username).Msg("Logged in but failed to fetch current user")
	}
	m.setUser(user)

	log.Info().Str("username", username).Msg("Logged in")
	if navigate != nil {
		navigate(m.landingAuthenticated)
	}
	return nil
}

// Logout asks the API to end the session, then clears the local session
// whether or not the API answered, and navigates to the login area. The
// returned error only reports that the server side was not invalidated.
func (m *Manager) Logout(ctx context.Context, navigate NavigateFunc) error {
	m.writeLock.Lock()
	defer m.writeLock.Unlock()

	serverErr := m.auth.Logout(ctx)
	m.clearSession()
	if m.clearCookies != nil {
		if err := m.clearCookies(); err != nil {
			log.Warn().Err(err).Msg("Failed to clear local cookies on logout")
		}
	}

	log.Info().Msg("Logged out")
	if navigate != nil {
		navigate(m.landingAnonymous)
	}
	if serverErr != nil {
		return fmt.Errorf("[Manager.Logout] server session not invalidated: %w", serverErr)
	}
	return nil
}

// RefreshOnStartup tries to resume a session from the refresh cookie. It
// runs once; later calls return immediately. Any failure leaves the session
// anonymous without reporting it. The session is resolved when it returns,
// even if the attempt panicked.
func (m *Manager) RefreshOnStartup(ctx context.Context) {
	m.lock.Lock()
	if m.refreshStarted {
		m.lock.Unlock()
		return
	}
	m.refreshStarted = true
	m.lock.Unlock()
	m.publishPhase()

	m.writeLock.Lock()
	defer m.writeLock.Unlock()
	defer m.markResolved()

	token, err := m.auth.Refresh(ctx)
	if err != nil {
		log.Debug().Err(fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err)).Msg("No session to resume")
		m.clearSession()
		return
	}
	m.setCredential(token)

	user, err := m.auth.Me(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Resumed credential rejected by /users/me")
		m.clearSession()
		return
	}
	m.setUser(user)
	log.Info().Str("username", user.Username).Msg("Session resumed")
}

// Token implements oauth2.TokenSource.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.token == nil {
		return nil, errors.ErrNoCredential
	}
	return m.token, nil
}

// Credential returns the current access credential, or nil.
func (m *Manager) Credential() *oauth2.Token {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.token
}

// User returns the current user, or nil.
func (m *Manager) User() *users.User {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.user
}

// Resolved reports whether the startup refresh has finished.
func (m *Manager) Resolved() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.resolved
}

// ResolvedChan is closed once the session is resolved.
func (m *Manager) ResolvedChan() <-chan struct{} {
	return m.resolvedCh
}

// WaitResolved blocks until the session is resolved or ctx is done.
func (m *Manager) WaitResolved(ctx context.Context) error {
	select {
	case <-m.resolvedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) Phase() Phase {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.phaseLocked()
}

func (m *Manager) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return State{
		Token:    m.token,
		User:     m.user,
		Resolved: m.resolved,
		Phase:    m.phaseLocked(),
	}
}

func (m *Manager) phaseLocked() Phase {
	switch {
	case !m.resolved && !m.refreshStarted:
		return PhaseUnresolved
	case !m.resolved:
		return PhaseResolving
	case m.token != nil:
		return PhaseAuthenticated
	default:
		return PhaseAnonymous
	}
}

// setCredential stores token and pushes it to every listener. Callers hold
// writeLock.
func (m *Manager) setCredential(token *oauth2.Token) {
	m.lock.Lock()
	m.token = token
	listeners := append([]CredentialListener(nil), m.listeners...)
	m.lock.Unlock()

	for _, l := range listeners {
		l(token)
	}
	m.publishPhase()
}

func (m *Manager) setUser(user *users.User) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.user = user
}

func (m *Manager) clearSession() {
	m.setUser(nil)
	m.setCredential(nil)
}

func (m *Manager) markResolved() {
	m.lock.Lock()
	if !m.resolved {
		m.resolved = true
		close(m.resolvedCh)
	}
	m.lock.Unlock()
	m.publishPhase()
}

func (m *Manager) publishPhase() {
	metrics.SetSessionPhase(m.Phase().String(), PhaseNames)
}
