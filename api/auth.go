package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/legalcase-console/internal/errors"
	"github.com/jrsteele09/legalcase-console/users"
	"golang.org/x/oauth2"
)

// API routes used by the session manager
const (
	RouteAuthToken   = "/auth/token"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthLogout  = "/auth/logout"
	RouteUsersMe     = "/users/me"
)

// TokenResponse is the body of the token and refresh endpoints. The refresh
// token itself travels as an HTTP-only cookie and never appears here.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges a username and password for an access token. The API also
// sets the refresh cookie, which the client's jar keeps.
func (c *Client) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp TokenResponse
	if err := c.doForm(ctx, RouteAuthToken, form, &resp); err != nil {
		return nil, err
	}
	return tokenFromResponse(resp)
}

// Refresh obtains a new access token using only the refresh cookie.
func (c *Client) Refresh(ctx context.Context) (*oauth2.Token, error) {
	var resp TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, RouteAuthRefresh, nil, nil, &resp); err != nil {
		return nil, err
	}
	return tokenFromResponse(resp)
}

// Logout invalidates the server-side session of the ambient credential.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, RouteAuthLogout, nil, nil, nil)
}

// Me returns the profile of the user owning the ambient credential.
func (c *Client) Me(ctx context.Context) (*users.User, error) {
	var user users.User
	if err := c.doJSON(ctx, http.MethodGet, RouteUsersMe, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// tokenFromResponse builds the credential, reading the expiry from the
// access token when it is a JWT. The signature is not checked: the client
// is not the audience, the API is.
func tokenFromResponse(resp TokenResponse) (*oauth2.Token, error) {
	if resp.AccessToken == "" {
		return nil, errors.Wrapf(errors.ErrUnavailable, "token response without access_token")
	}
	tokenType := resp.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	token := &oauth2.Token{
		AccessToken: resp.AccessToken,
		TokenType:   strings.ToLower(tokenType),
	}

	if strings.Count(resp.AccessToken, ".") != 2 {
		return token, nil
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, &claims); err != nil {
		return token, nil
	}
	if claims.ExpiresAt != nil {
		token.Expiry = claims.ExpiresAt.Time
	}
	if claims.Subject != "" {
		token = token.WithExtra(map[string]any{"sub": claims.Subject})
	}
	return token, nil
}

// Subject returns the "sub" claim of a credential built by this package.
func Subject(token *oauth2.Token) string {
	if token == nil {
		return ""
	}
	sub, _ := token.Extra("sub").(string)
	return sub
}
