// Package cookiestore is an http.CookieJar that survives restarts. It keeps
// the API's HTTP-only refresh cookie on disk so the console can silently
// resume a session, sealing the file with a passphrase when one is set.
package cookiestore

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var _ http.CookieJar = (*Store)(nil)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type entry struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	HostOnly bool      `json:"host_only"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires"`
	Secure   bool      `json:"secure"`
	HttpOnly bool      `json:"http_only"`
}

func (e *entry) id() string {
	return e.Domain + ";" + e.Path + ";" + e.Name
}

func (e *entry) persistent() bool {
	return !e.Expires.IsZero()
}

// Store is a single-user cookie jar. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	path    string
	sealer  *sealer
	entries map[string]*entry
}

// New opens the store at path, loading any cookies saved by an earlier run.
// An empty path keeps cookies in memory. A non-empty passphrase encrypts the
// file at rest.
func New(path, passphrase string) (*Store, error) {
	s := &Store{
		path:    path,
		entries: make(map[string]*entry),
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("[cookiestore.New] read %s: %w", path, err)
	}

	var f file
	if len(data) > 0 {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("[cookiestore.New] decode %s: %w", path, err)
		}
	}

	if passphrase != "" {
		s.sealer, err = newSealer(passphrase, f.Salt)
		if err != nil {
			return nil, fmt.Errorf("[cookiestore.New] %w", err)
		}
	}

	entries, err := f.open(s.sealer)
	if err != nil {
		return nil, fmt.Errorf("[cookiestore.New] %s: %w", path, err)
	}
	now := NowTimeFunc()
	for _, e := range entries {
		if e.Expires.After(now) {
			s.entries[e.id()] = e
		}
	}
	return s, nil
}

// SetCookies implements http.CookieJar.
func (s *Store) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	host := canonicalHost(u)
	now := NowTimeFunc()
	changed := false
	for _, c := range cookies {
		e := &entry{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   host,
			HostOnly: true,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if domain := strings.TrimPrefix(strings.ToLower(c.Domain), "."); domain != "" {
			if !domainMatch(host, domain) {
				continue
			}
			e.Domain = domain
			e.HostOnly = false
		}
		if e.Path == "" || e.Path[0] != '/' {
			e.Path = defaultPath(u.Path)
		}

		switch {
		case c.MaxAge < 0:
			e.Expires = now.Add(-time.Second)
		case c.MaxAge > 0:
			e.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		case !c.Expires.IsZero():
			e.Expires = c.Expires
		}

		if !e.Expires.IsZero() && !e.Expires.After(now) {
			if _, ok := s.entries[e.id()]; ok {
				delete(s.entries, e.id())
				changed = true
			}
			continue
		}
		if prev, ok := s.entries[e.id()]; ok && prev.persistent() {
			changed = true
		}
		s.entries[e.id()] = e
		changed = changed || e.persistent()
	}

	if changed {
		if err := s.saveLocked(); err != nil {
			log.Err(err).Str("path", s.path).Msg("Failed to persist cookies")
		}
	}
}

// Cookies implements http.CookieJar.
func (s *Store) Cookies(u *url.URL) []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	host := canonicalHost(u)
	secureOK := u.Scheme == "https" || isLoopback(host)
	reqPath := u.Path
	if reqPath == "" {
		reqPath = "/"
	}

	now := NowTimeFunc()
	var cookies []*http.Cookie
	for id, e := range s.entries {
		if e.persistent() && !e.Expires.After(now) {
			delete(s.entries, id)
			continue
		}
		if e.HostOnly && e.Domain != host {
			continue
		}
		if !e.HostOnly && !domainMatch(host, e.Domain) {
			continue
		}
		if e.Secure && !secureOK {
			continue
		}
		if !pathMatch(reqPath, e.Path) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: e.Name, Value: e.Value})
	}
	return cookies
}

// Clear drops every cookie, including the saved copy.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
	return s.saveLocked()
}

// Len reports how many cookies are held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}

	persistent := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.persistent() {
			persistent = append(persistent, e)
		}
	}

	f, err := seal(persistent, s.sealer)
	if err != nil {
		return err
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create cookie dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cookies: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func canonicalHost(u *url.URL) string {
	return strings.ToLower(u.Hostname())
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func domainMatch(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// defaultPath implements the RFC 6265 default-path of a request URI.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}
