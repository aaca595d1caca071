package cookiejar

// Package cookiejar provides the cookie-equivalent credential backend. It
// writes the token cookies into an http.CookieJar scoped to the API origin,
// so any request sent through a client sharing the jar carries the same
// values the server-side gate reads.

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
)

// DefaultTTL is the cookie lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// Options configures the cookie backend.
type Options struct {
	// BaseURL is the API origin the cookies are scoped to.
	BaseURL *url.URL
	// TTL overrides the default 7-day cookie lifetime.
	TTL time.Duration
	// Secure marks cookies Secure; enable in production.
	Secure bool
}

// CredentialStore stores credential pairs as cookies in a jar. The profile
// slot is intentionally absent: the cookie layout holds tokens only, the
// persistent mirror owns the profile.
type CredentialStore struct {
	jar    http.CookieJar
	base   *url.URL
	ttl    time.Duration
	secure bool
}

// New creates a cookie credential backend with a fresh public-suffix-aware jar.
func New(opts Options) (*CredentialStore, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return NewWithJar(jar, opts), nil
}

// NewWithJar creates a cookie credential backend over an existing jar,
// typically the one already attached to the API http.Client.
func NewWithJar(jar http.CookieJar, opts Options) *CredentialStore {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CredentialStore{
		jar:    jar,
		base:   opts.BaseURL,
		ttl:    ttl,
		secure: opts.Secure,
	}
}

// Jar exposes the underlying jar for sharing with an http.Client.
func (s *CredentialStore) Jar() http.CookieJar { return s.jar }

func (s *CredentialStore) SaveTokens(_ context.Context, scope domainauth.Scope, creds domainauth.Credentials) error {
	expires := time.Now().Add(s.ttl)
	s.jar.SetCookies(s.base, []*http.Cookie{
		s.cookie(scope.AccessKey(), creds.AccessToken, expires),
		s.cookie(scope.RefreshKey(), creds.RefreshToken, expires),
	})
	return nil
}

func (s *CredentialStore) LoadTokens(_ context.Context, scope domainauth.Scope) (domainauth.Credentials, error) {
	var creds domainauth.Credentials
	for _, c := range s.jar.Cookies(s.base) {
		switch c.Name {
		case scope.AccessKey():
			creds.AccessToken = c.Value
		case scope.RefreshKey():
			creds.RefreshToken = c.Value
		}
	}
	return creds, nil
}

func (s *CredentialStore) ClearTokens(_ context.Context, scope domainauth.Scope) error {
	// A negative MaxAge evicts the cookie from the jar.
	s.jar.SetCookies(s.base, []*http.Cookie{
		{Name: scope.AccessKey(), Value: "", Path: "/", MaxAge: -1},
		{Name: scope.RefreshKey(), Value: "", Path: "/", MaxAge: -1},
	})
	return nil
}

// SaveProfile is a no-op; the cookie layout has no profile slot.
func (s *CredentialStore) SaveProfile(context.Context, *domainauth.Profile) error { return nil }

// LoadProfile always reports no cached profile.
func (s *CredentialStore) LoadProfile(context.Context) (*domainauth.Profile, error) { return nil, nil }

func (s *CredentialStore) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
