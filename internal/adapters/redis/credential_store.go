package redis

// Package redis provides the persistent credential backend, the durable
// mirror of the cookie layout that survives reloads.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/busbook/busbook/internal/domain/auth"
)

// DefaultTTL matches the 7-day cookie expiry of the cookie-equivalent store.
const DefaultTTL = 7 * 24 * time.Hour

// CredentialStore is a Redis-based credential backend. Token values are
// stored under the shared key layout from the auth domain package, so the
// two role scopes never collide.
type CredentialStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewCredentialStore creates a Redis credential backend with the default
// key prefix and TTL.
func NewCredentialStore(client redis.UniversalClient) *CredentialStore {
	return NewCredentialStoreWithPrefix(client, "cred:")
}

// NewCredentialStoreWithPrefix creates a Redis credential backend with a
// custom key prefix.
func NewCredentialStoreWithPrefix(client redis.UniversalClient, prefix string) *CredentialStore {
	return &CredentialStore{
		client: client,
		prefix: prefix,
		ttl:    DefaultTTL,
	}
}

func (s *CredentialStore) SaveTokens(ctx context.Context, scope domainauth.Scope, creds domainauth.Credentials) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.prefix+scope.AccessKey(), creds.AccessToken, s.ttl)
	pipe.Set(ctx, s.prefix+scope.RefreshKey(), creds.RefreshToken, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save tokens: %w", err)
	}
	return nil
}

func (s *CredentialStore) LoadTokens(ctx context.Context, scope domainauth.Scope) (domainauth.Credentials, error) {
	access, err := s.getOrEmpty(ctx, s.prefix+scope.AccessKey())
	if err != nil {
		return domainauth.Credentials{}, err
	}
	refresh, err := s.getOrEmpty(ctx, s.prefix+scope.RefreshKey())
	if err != nil {
		return domainauth.Credentials{}, err
	}
	return domainauth.Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *CredentialStore) ClearTokens(ctx context.Context, scope domainauth.Scope) error {
	if err := s.client.Del(ctx, s.prefix+scope.AccessKey(), s.prefix+scope.RefreshKey()).Err(); err != nil {
		return fmt.Errorf("redis clear tokens: %w", err)
	}
	return nil
}

func (s *CredentialStore) SaveProfile(ctx context.Context, p *domainauth.Profile) error {
	key := s.prefix + domainauth.KeyUserProfile
	if p == nil {
		return s.client.Del(ctx, key).Err()
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *CredentialStore) LoadProfile(ctx context.Context) (*domainauth.Profile, error) {
	data, err := s.client.Get(ctx, s.prefix+domainauth.KeyUserProfile).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get profile: %w", err)
	}

	var p domainauth.Profile
	if unmarshalErr := json.Unmarshal([]byte(data), &p); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", unmarshalErr)
	}
	return &p, nil
}

// getOrEmpty treats a missing key as an empty value; absence of tokens is
// not an error for credential loads.
func (s *CredentialStore) getOrEmpty(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}
