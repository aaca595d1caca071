package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/session
// and internal/apiclient.

import (
	"context"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
)

// CredentialBackend persists one copy of the credential pairs and the cached
// user profile. The two role scopes are stored independently and never
// overwrite each other. LoadTokens returns zero Credentials (not an error)
// when nothing was saved; ClearTokens is idempotent.
type CredentialBackend interface {
	SaveTokens(ctx context.Context, scope domainauth.Scope, creds domainauth.Credentials) error
	LoadTokens(ctx context.Context, scope domainauth.Scope) (domainauth.Credentials, error)
	ClearTokens(ctx context.Context, scope domainauth.Scope) error

	// The profile occupies a single shared slot, not namespaced by scope.
	// LoadProfile returns nil when no profile is cached. Backends without a
	// profile slot (the cookie layout has none) treat these as no-ops.
	SaveProfile(ctx context.Context, p *domainauth.Profile) error
	LoadProfile(ctx context.Context) (*domainauth.Profile, error)
}

// TokenVerifier checks that an access token is structurally valid and signed,
// and returns the profile claims read from the verified payload.
type TokenVerifier interface {
	Verify(token string) (*domainauth.Profile, error)
}

// Refresher rotates the access token for a scope and returns the new one.
// A failed refresh is fatal for the scope's session: the implementation
// clears stored credentials before returning the error.
type Refresher interface {
	Refresh(ctx context.Context, scope domainauth.Scope) (string, error)
}
