package config

type SessionConfig interface {
	GetLandingPath() string
	GetLoginPath() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetLandingPath is where a successful login navigates to.
func (Session) GetLandingPath() string {
	return GetEnv("LANDING_PATH", "/u/companies")
}

func (Session) GetLoginPath() string {
	return "/login"
}
