package config

import (
	"strings"
	"time"
)

// APIConfig contains configuration for the upstream BusBook API.
type APIConfig struct {
	// BaseURL is the API origin, e.g. "https://api.busbook.example".
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000"`

	// LoginPath is the standard login endpoint path.
	LoginPath string `env:"LOGIN_PATH" envDefault:"/login/"`

	// AdminLoginPath is the superadmin login endpoint path. Its marker
	// segment flags a login attempt as superadmin-scoped.
	AdminLoginPath string `env:"ADMIN_LOGIN_PATH" envDefault:"/superadmin/login/"`

	// AdminMarker is the path fragment that marks a login endpoint as a
	// superadmin attempt.
	AdminMarker string `env:"ADMIN_MARKER" envDefault:"superadmin"`

	// RefreshPath is the token refresh endpoint path.
	RefreshPath string `env:"REFRESH_PATH" envDefault:"/token/refresh/"`

	// LogoutPath is the logout endpoint path.
	LogoutPath string `env:"LOGOUT_PATH" envDefault:"/logout/"`

	// Timeout bounds each upstream request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimSuffix(strings.TrimSpace(a.BaseURL), "/")
	if a.Timeout <= 0 {
		a.Timeout = 30 * time.Second
	}
}

// ExemptPaths lists endpoints whose 401 responses must never trigger a
// token refresh.
func (a *APIConfig) ExemptPaths() []string {
	return []string{a.LoginPath, a.AdminLoginPath, a.RefreshPath, a.LogoutPath}
}
