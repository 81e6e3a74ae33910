package api

import (
	"net/http"
	"sync/atomic"

	"github.com/jrsteele09/legalcase-console/internal/errors"
	"golang.org/x/oauth2"
)

var _ oauth2.TokenSource = (*BearerTransport)(nil)

// BearerTransport attaches the current credential to every outgoing request
// that does not already carry an Authorization header. The credential is
// pushed in through SetToken by its single writer, the session manager.
type BearerTransport struct {
	Base  http.RoundTripper
	token atomic.Pointer[oauth2.Token]
}

func NewBearerTransport(base http.RoundTripper) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &BearerTransport{Base: base}
}

// SetToken replaces the ambient credential. nil removes it.
func (t *BearerTransport) SetToken(token *oauth2.Token) {
	if token == nil || token.AccessToken == "" {
		t.token.Store(nil)
		return
	}
	t.token.Store(token)
}

// Token implements oauth2.TokenSource.
func (t *BearerTransport) Token() (*oauth2.Token, error) {
	token := t.token.Load()
	if token == nil {
		return nil, errors.ErrNoCredential
	}
	return token, nil
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.token.Load()
	if token == nil || req.Header.Get("Authorization") != "" {
		return t.Base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	authed := req.Clone(req.Context())
	token.SetAuthHeader(authed)
	return t.Base.RoundTrip(authed)
}
