package config

import "time"

// DevSigningSecret is the fallback token secret used only in development
// mode. Sanitize clears it outside development so startup fails instead of
// running with a known key.
const DevSigningSecret = "busbook-dev-secret"

// AuthConfig groups token verification and cookie configuration.
type AuthConfig struct {
	// SigningSecret is the HMAC secret shared with the API for access
	// token verification. Required outside development mode.
	SigningSecret string `env:"AUTH_SIGNING_SECRET"`

	// CookieDomain is the domain for token cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"AUTH_COOKIE_DOMAIN" envDefault:""`

	// CookieTTL is the token cookie lifetime; it should match the refresh
	// token validity on the API side.
	CookieTTL time.Duration `env:"AUTH_COOKIE_TTL" envDefault:"168h"`

	// SecureCookies forces the Secure flag on cookies even when TLS is
	// not detected on the request, for TLS-terminating proxies.
	SecureCookies bool `env:"AUTH_SECURE_COOKIES" envDefault:"false"`
}

// Sanitize applies guardrails to auth configuration values. In development
// mode a missing signing secret falls back to the dev secret; in production
// it stays empty and the verifier constructor rejects it at startup.
func (a *AuthConfig) Sanitize(isDev bool) {
	if a.SigningSecret == "" && isDev {
		a.SigningSecret = DevSigningSecret
	}
	if a.CookieTTL <= 0 {
		a.CookieTTL = 168 * time.Hour
	}
}
