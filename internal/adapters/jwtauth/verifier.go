package jwtauth

// Package jwtauth verifies access tokens for the server-side gate. Role
// claims are read from the verified payload only; nothing is trusted from
// unauthenticated client storage.

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
	apperrors "github.com/busbook/busbook/internal/errors"
)

// Claims carries the profile fields the API bakes into access tokens.
type Claims struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	IsOwner     bool   `json:"is_owner"`
	IsEmployee  bool   `json:"is_employee"`
	jwt.RegisteredClaims
}

// Verifier checks token structure, signature, and expiry with an HMAC
// secret shared with the API.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier. The secret must be non-empty; the config
// layer rejects the dev fallback outside development mode before it ever
// reaches here.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Verify implements ports.TokenVerifier. It returns the profile from the
// verified claims, or an unauthorized error for anything malformed, expired,
// or signed with the wrong key or algorithm.
func (v *Verifier) Verify(token string) (*domainauth.Profile, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "invalid access token")
	}
	if !parsed.Valid {
		return nil, apperrors.Unauthorized("invalid access token")
	}

	return &domainauth.Profile{
		ID:          claims.Subject,
		Name:        claims.Name,
		Email:       claims.Email,
		IsSuperuser: claims.IsSuperuser,
		IsOwner:     claims.IsOwner,
		IsEmployee:  claims.IsEmployee,
	}, nil
}

// Sign mints an access token for the profile; used by tests and dev
// seeding. The API is the production issuer.
func (v *Verifier) Sign(p *domainauth.Profile, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:        p.Name,
		Email:       p.Email,
		IsSuperuser: p.IsSuperuser,
		IsOwner:     p.IsOwner,
		IsEmployee:  p.IsEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
