package config

import "strings"

const (
	apiBaseURLEnvVar = "API_BASE_URL"
	apiPrefixEnvVar  = "API_PREFIX"
)

// APIConfig locates the legal case REST API.
type APIConfig interface {
	GetAPIBaseURL() string
	GetAPIPrefix() string
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the scheme and host of the REST API (e.g. "http://localhost:8000")
func (API) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLEnvVar, "http://localhost:8000"), "/")
}

func (API) GetAPIPrefix() string {
	prefix := GetEnv(apiPrefixEnvVar, "/api/v1")
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimRight(prefix, "/")
}
