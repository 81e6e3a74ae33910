package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	envVar         = "ENV"
	logLevelEnvVar = "LOG_LEVEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetPort returns the listen address of the console. The console binds to
// loopback unless HOST says otherwise.
func (EnvVars) GetPort() string {
	port := strings.TrimPrefix(GetEnv(portEnvVar, "5173"), ":")
	return fmt.Sprintf("%s:%s", GetEnv("HOST", "127.0.0.1"), port)
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Legal Cases")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "info")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
