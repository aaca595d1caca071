package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: upstream BusBook API configuration
//   - auth.go: token and cookie configuration
//   - http.go: HTTP server configuration
//   - redis.go: Redis credential store configuration
type AppConfig struct {
	// IsDev controls development mode behavior (dev signing secret
	// fallback, relaxed cookie security). Set DEV=true or
	// NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// API is the upstream BusBook API configuration.
	API APIConfig `envPrefix:"API_"`

	// Auth is the token verification and cookie configuration.
	Auth AuthConfig

	// Redis is the persistent credential store configuration.
	Redis RedisConfig `envPrefix:"REDIS_"`

	// HTTP is the server configuration.
	HTTP HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()
	c.API.Sanitize()
	c.Auth.Sanitize(c.IsDev)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
