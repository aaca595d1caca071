package credstore

// Package credstore composes credential backends into a single store. Writes
// fan out to every backend so the cookie-equivalent and persistent copies
// observe the same values; reads fall through in order.

import (
	"context"
	"errors"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
	"github.com/busbook/busbook/internal/ports"
)

// Store is the credential store used by the session manager and API client.
// It owns the credential pair lifecycle; nothing else writes tokens.
type Store struct {
	backends []ports.CredentialBackend
}

// New composes one or more backends. Order matters for reads: the first
// backend with a value wins.
func New(backends ...ports.CredentialBackend) *Store {
	return &Store{backends: backends}
}

// Save persists the pair to every backend. Failures are joined so one broken
// backend does not hide another's.
func (s *Store) Save(ctx context.Context, scope domainauth.Scope, creds domainauth.Credentials) error {
	var errs []error
	for _, b := range s.backends {
		if err := b.SaveTokens(ctx, scope, creds); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load returns the scope's pair from the first backend holding one, or zero
// Credentials when no backend has anything saved.
func (s *Store) Load(ctx context.Context, scope domainauth.Scope) (domainauth.Credentials, error) {
	var errs []error
	for _, b := range s.backends {
		creds, err := b.LoadTokens(ctx, scope)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !creds.IsZero() {
			return creds, nil
		}
	}
	return domainauth.Credentials{}, errors.Join(errs...)
}

// Clear removes the scope's pair from every backend. Idempotent.
func (s *Store) Clear(ctx context.Context, scope domainauth.Scope) error {
	var errs []error
	for _, b := range s.backends {
		if err := b.ClearTokens(ctx, scope); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveUser persists the last-authenticated profile in the shared slot.
// A nil profile clears the slot.
func (s *Store) SaveUser(ctx context.Context, p *domainauth.Profile) error {
	var errs []error
	for _, b := range s.backends {
		if err := b.SaveProfile(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LoadUser returns the cached profile, or nil when no backend has one.
func (s *Store) LoadUser(ctx context.Context) (*domainauth.Profile, error) {
	var errs []error
	for _, b := range s.backends {
		p, err := b.LoadProfile(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if p != nil {
			return p, nil
		}
	}
	return nil, errors.Join(errs...)
}
