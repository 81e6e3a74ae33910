package config

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	API
	Session
	Security
}

func New() Config {
	return mainConfig{}
}
