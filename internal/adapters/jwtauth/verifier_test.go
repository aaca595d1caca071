package jwtauth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
	apperrors "github.com/busbook/busbook/internal/errors"
)

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier("")
	require.Error(t, err)
}

func TestVerifier_RoundTrip(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	profile := &domainauth.Profile{
		ID:         "user-7",
		Name:       "Fatema",
		Email:      "fatema@example.com",
		IsEmployee: true,
	}
	token, err := v.Sign(profile, time.Hour)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	signer, err := NewVerifier("secret-a")
	require.NoError(t, err)
	verifier, err := NewVerifier("secret-b")
	require.NoError(t, err)

	token, err := signer.Sign(&domainauth.Profile{Name: "x"}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestVerifier_RejectsExpiredToken(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	token, err := v.Sign(&domainauth.Profile{Name: "x"}, -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestVerifier_RejectsUnsignedToken(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Name: "x"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestVerifier_RejectsGarbage(t *testing.T) {
	v, err := NewVerifier("test-secret")
	require.NoError(t, err)

	_, err = v.Verify("not-a-token")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}
