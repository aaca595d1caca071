package httpx

import (
	"context"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
)

// profileKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type profileKey struct{}

// SetProfileInContext returns a child context that carries the verified profile.
// If profile is nil, the original ctx is returned unchanged.
func SetProfileInContext(ctx context.Context, profile *domainauth.Profile) context.Context {
	if profile == nil {
		return ctx
	}
	return context.WithValue(ctx, profileKey{}, profile)
}

// GetProfileFromContext returns the verified profile from context and a boolean
// indicating presence.
func GetProfileFromContext(ctx context.Context) (*domainauth.Profile, bool) {
	if profile, ok := ctx.Value(profileKey{}).(*domainauth.Profile); ok && profile != nil {
		return profile, true
	}
	return nil, false
}
