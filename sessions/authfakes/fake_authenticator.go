package authfakes

import (
	"context"
	"net/http"
	"sync"

	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/sessions"
	"github.com/jrsteele09/legalcase-console/users"
	"golang.org/x/oauth2"
)

var _ sessions.Authenticator = (*FakeAuthenticator)(nil)

type account struct {
	password string
	token    string
	user     *users.User
}

// FakeAuthenticator is an in-memory sessions.Authenticator. It remembers
// which user the last issued token belongs to, the way the API's refresh
// cookie would.
type FakeAuthenticator struct {
	lock         sync.Mutex
	accounts     map[string]account
	refresh      *account
	refreshGate  chan struct{}
	refreshPanic bool
	loginErr     error
	meErr        error
	logoutErr    error
	current      *users.User
	calls        []string
}

func NewFakeAuthenticator() *FakeAuthenticator {
	return &FakeAuthenticator{
		accounts: make(map[string]account),
	}
}

// AddUser registers credentials that Login accepts, issuing token.
func (fa *FakeAuthenticator) AddUser(user *users.User, password, token string) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.accounts[user.Username] = account{password: password, token: token, user: user}
}

// SetRefreshSession makes Refresh succeed with token for user.
func (fa *FakeAuthenticator) SetRefreshSession(user *users.User, token string) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.refresh = &account{token: token, user: user}
}

// BlockRefresh holds Refresh until the returned func is called.
func (fa *FakeAuthenticator) BlockRefresh() (release func()) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	gate := make(chan struct{})
	fa.refreshGate = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// PanicOnRefresh makes Refresh panic.
func (fa *FakeAuthenticator) PanicOnRefresh() {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.refreshPanic = true
}

func (fa *FakeAuthenticator) SetLoginError(err error) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.loginErr = err
}

func (fa *FakeAuthenticator) SetMeError(err error) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.meErr = err
}

func (fa *FakeAuthenticator) SetLogoutError(err error) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.logoutErr = err
}

// Calls returns the operations invoked, in order.
func (fa *FakeAuthenticator) Calls() []string {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	return append([]string(nil), fa.calls...)
}

func (fa *FakeAuthenticator) Login(_ context.Context, username, password string) (*oauth2.Token, error) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.calls = append(fa.calls, "login")

	if fa.loginErr != nil {
		return nil, fa.loginErr
	}
	acc, ok := fa.accounts[username]
	if !ok || acc.password != password {
		return nil, &errors.APIError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect username or password"}
	}
	fa.current = acc.user
	fa.refresh = &acc
	return &oauth2.Token{AccessToken: acc.token, TokenType: "bearer"}, nil
}

func (fa *FakeAuthenticator) Refresh(ctx context.Context) (*oauth2.Token, error) {
	fa.lock.Lock()
	fa.calls = append(fa.calls, "refresh")
	gate := fa.refreshGate
	fa.lock.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fa.lock.Lock()
	defer fa.lock.Unlock()
	if fa.refreshPanic {
		panic("refresh exploded")
	}
	if fa.refresh == nil {
		return nil, &errors.APIError{StatusCode: http.StatusUnauthorized, Detail: "Refresh token missing"}
	}
	fa.current = fa.refresh.user
	return &oauth2.Token{AccessToken: fa.refresh.token, TokenType: "bearer"}, nil
}

func (fa *FakeAuthenticator) Logout(_ context.Context) error {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.calls = append(fa.calls, "logout")
	if fa.logoutErr != nil {
		return fa.logoutErr
	}
	fa.current = nil
	fa.refresh = nil
	return nil
}

func (fa *FakeAuthenticator) Me(_ context.Context) (*users.User, error) {
	fa.lock.Lock()
	defer fa.lock.Unlock()
	fa.calls = append(fa.calls, "me")
	if fa.meErr != nil {
		return nil, fa.meErr
	}
	if fa.current == nil {
		return nil, &errors.APIError{StatusCode: http.StatusUnauthorized, Detail: "Not authenticated"}
	}
	return fa.current, nil
}
