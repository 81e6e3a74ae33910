// Package api is the HTTP client of the legal case REST API. Every request
// goes through one http.Client whose transport attaches the current bearer
// credential and whose jar carries the API's refresh cookie.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/legalcase-console/internal/errors"
)

const maxErrorBody = 64 << 10

// Client talks to the REST API rooted at baseURL+prefix.
type Client struct {
	baseURL    string
	prefix     string
	httpClient *http.Client
	bearer     *BearerTransport
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*clientOptions)

type clientOptions struct {
	base http.RoundTripper
	jar  http.CookieJar
}

// WithTransport sets the transport below the bearer and metrics layers.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) {
		o.base = rt
	}
}

// WithCookieJar sets the jar holding the API's refresh cookie.
func WithCookieJar(jar http.CookieJar) ClientOption {
	return func(o *clientOptions) {
		o.jar = jar
	}
}

// New builds a Client. Timeouts are left to the transport.
func New(baseURL, prefix string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[api.New] invalid base URL %q", baseURL)
	}

	opts := clientOptions{base: http.DefaultTransport}
	for _, opt := range options {
		opt(&opts)
	}

	bearer := NewBearerTransport(&instrumentedTransport{base: opts.base})
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "/" + strings.Trim(prefix, "/"),
		httpClient: &http.Client{
			Transport: bearer,
			Jar:       opts.jar,
		},
		bearer: bearer,
	}, nil
}

// Bearer returns the transport that attaches the ambient credential. The
// session manager subscribes it to credential changes.
func (c *Client) Bearer() *BearerTransport {
	return c.bearer
}

// HTTPClient returns the underlying client, for callers that need raw access.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + c.prefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON sends body (if any) as JSON and decodes a 2xx response into out (if any).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

// doForm posts form-encoded values and decodes a 2xx response into out.
func (c *Client) doForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %v", errors.ErrUnavailable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", errors.ErrUnavailable, req.Method, req.URL.Path, err)
	}
	return nil
}

// decodeError turns a non-2xx response into an *errors.APIError, keeping the
// server's message verbatim.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &errors.APIError{
		StatusCode: resp.StatusCode,
		Detail:     errorDetail(data),
	}
}

func errorDetail(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		// Validation errors arrive as a list of {loc, msg, type}.
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return payload.Message
}
