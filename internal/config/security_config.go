package config

import (
	"os"
	"path/filepath"
)

type SecurityConfig interface {
	GetCookieStorePath() string
	GetCookieStorePassphrase() string
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetCookieStorePath is the file holding the API's refresh cookie between runs.
// An empty value keeps cookies in memory only.
func (Security) GetCookieStorePath() string {
	if path, ok := os.LookupEnv("COOKIE_STORE_PATH"); ok {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "legalcase-console", "cookies.json")
}

// GetCookieStorePassphrase enables encryption at rest of the cookie store.
func (Security) GetCookieStorePassphrase() string {
	return GetEnv("COOKIE_STORE_PASSPHRASE", "")
}
