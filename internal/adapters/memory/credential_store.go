package memory

// Package memory provides an in-process credential backend used in tests and
// development mode, where neither Redis nor a cookie jar is available.

import (
	"context"
	"sync"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
)

// CredentialStore keeps credential pairs and the cached profile in a map.
// Safe for concurrent use.
type CredentialStore struct {
	mu      sync.RWMutex
	values  map[string]string
	profile *domainauth.Profile
}

// NewCredentialStore creates an empty in-memory credential backend.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{values: make(map[string]string)}
}

func (s *CredentialStore) SaveTokens(_ context.Context, scope domainauth.Scope, creds domainauth.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[scope.AccessKey()] = creds.AccessToken
	s.values[scope.RefreshKey()] = creds.RefreshToken
	return nil
}

func (s *CredentialStore) LoadTokens(_ context.Context, scope domainauth.Scope) (domainauth.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domainauth.Credentials{
		AccessToken:  s.values[scope.AccessKey()],
		RefreshToken: s.values[scope.RefreshKey()],
	}, nil
}

func (s *CredentialStore) ClearTokens(_ context.Context, scope domainauth.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, scope.AccessKey())
	delete(s.values, scope.RefreshKey())
	return nil
}

func (s *CredentialStore) SaveProfile(_ context.Context, p *domainauth.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.profile = nil
		return nil
	}
	cp := *p
	s.profile = &cp
	return nil
}

func (s *CredentialStore) LoadProfile(_ context.Context) (*domainauth.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, nil
	}
	cp := *s.profile
	return &cp, nil
}
