package session

// Package session owns the in-memory source of truth for "who is logged in
// and with what token". The manager is injectable rather than ambient, and
// is mutated only through Login, Logout, and Refresh. UI collaborators and
// the route guard observe it via Subscribe or Snapshot.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/busbook/busbook/internal/apiclient"
	"github.com/busbook/busbook/internal/credstore"
	domainauth "github.com/busbook/busbook/internal/domain/auth"
	apperrors "github.com/busbook/busbook/internal/errors"
)

// Snapshot is an immutable view of the session state. IsAuthenticated is
// true only when an access token is present.
type Snapshot struct {
	User            *domainauth.Profile
	AccessToken     string
	RefreshToken    string
	IsAuthenticated bool
	IsSuperAdmin    bool
	IsLoading       bool
	Err             any
}

// Role derives the application role for the snapshot's user.
func (s Snapshot) Role() domainauth.Role {
	if s.IsSuperAdmin {
		return domainauth.RoleSuperAdmin
	}
	return domainauth.ResolveRole(s.User)
}

// Endpoints names the auth endpoints on the remote API.
type Endpoints struct {
	// Login is the default login path, e.g. "/login/".
	Login string
	// AdminMarker flags a login endpoint as a superadmin attempt when its
	// path contains it.
	AdminMarker string
	// Refresh is the token refresh path, e.g. "/token/refresh/".
	Refresh string
	// Logout is the logout path, e.g. "/logout/".
	Logout string
}

// ManagerOptions groups dependencies for the Manager.
type ManagerOptions struct {
	Client    *apiclient.Client
	Store     *credstore.Store
	Endpoints Endpoints
	Logger    *slog.Logger
}

// Manager is the session state machine. All identity fields transition
// together: a failed login or refresh never leaves a partially cleared
// state.
type Manager struct {
	client    *apiclient.Client
	store     *credstore.Store
	endpoints Endpoints
	logger    *slog.Logger

	mu          sync.Mutex
	state       Snapshot
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// NewManager constructs a Manager in the anonymous state.
func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:      opts.Client,
		store:       opts.Store,
		endpoints:   opts.Endpoints,
		logger:      logger,
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn to be called after every state transition. The
// returned cancel function removes the subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// Hydrate restores session state from the credential store, e.g. after a
// process restart. While it runs, IsLoading is true and the route guard
// issues no redirects.
func (m *Manager) Hydrate(ctx context.Context) {
	m.transition(func(s *Snapshot) {
		s.IsLoading = true
		s.Err = nil
	})

	profile, err := m.store.LoadUser(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "hydrate: load cached profile failed", "error", err)
	}
	scope := domainauth.ResolveScope(profile)
	creds, err := m.store.Load(ctx, scope)
	if err != nil {
		m.logger.WarnContext(ctx, "hydrate: load credentials failed", "scope", string(scope), "error", err)
	}

	m.transition(func(s *Snapshot) {
		s.IsLoading = false
		if creds.AccessToken == "" {
			resetIdentity(s)
			return
		}
		s.User = profile
		s.AccessToken = creds.AccessToken
		s.RefreshToken = creds.RefreshToken
		s.IsAuthenticated = true
		s.IsSuperAdmin = scope == domainauth.ScopeSuperAdmin
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse accepts both server shapes: a nested tokens object or
// top-level access/refresh fields.
type loginResponse struct {
	User    domainauth.Profile      `json:"user"`
	Tokens  *domainauth.Credentials `json:"tokens"`
	Access  string                  `json:"access"`
	Refresh string                  `json:"refresh"`
}

func (r *loginResponse) credentials() domainauth.Credentials {
	if r.Tokens != nil {
		return *r.Tokens
	}
	return domainauth.Credentials{AccessToken: r.Access, RefreshToken: r.Refresh}
}

// Login authenticates against the given endpoint (the default login path
// when empty). An endpoint containing the admin marker is a superadmin
// attempt and resolves to the superadmin scope. The returned error and the
// Err field carry the same failure: Err is always set before Login returns.
// Calling Login while already authenticated overwrites the session.
func (m *Manager) Login(ctx context.Context, username, password, endpoint string) error {
	if endpoint == "" {
		endpoint = m.endpoints.Login
	}
	isAdmin := m.endpoints.AdminMarker != "" && strings.Contains(endpoint, m.endpoints.AdminMarker)
	scope := domainauth.ScopeStandard
	if isAdmin {
		scope = domainauth.ScopeSuperAdmin
	}

	m.transition(func(s *Snapshot) {
		s.IsLoading = true
		s.Err = nil
	})

	var payload loginResponse
	if err := m.client.PostJSON(ctx, endpoint, loginRequest{Username: username, Password: password}, &payload); err != nil {
		m.fail(err)
		return err
	}

	creds := payload.credentials()
	if creds.AccessToken == "" {
		err := apperrors.Internal("login response carried no access token")
		m.fail(err)
		return err
	}

	if err := m.store.Save(ctx, scope, creds); err != nil {
		m.logger.WarnContext(ctx, "persist credentials failed", "scope", string(scope), "error", err)
	}
	profile := payload.User
	if err := m.store.SaveUser(ctx, &profile); err != nil {
		m.logger.WarnContext(ctx, "persist profile failed", "error", err)
	}

	m.transition(func(s *Snapshot) {
		s.User = &profile
		s.AccessToken = creds.AccessToken
		s.RefreshToken = creds.RefreshToken
		s.IsAuthenticated = true
		s.IsSuperAdmin = isAdmin || profile.IsSuperuser
		s.IsLoading = false
		s.Err = nil
	})
	return nil
}

// Logout posts to the logout endpoint best-effort (network failure is
// logged, never surfaced), then unconditionally clears the scope's stored
// credentials and resets the session to anonymous.
func (m *Manager) Logout(ctx context.Context, scope domainauth.Scope) error {
	if err := m.client.PostJSON(ctx, m.endpoints.Logout, nil, nil); err != nil {
		m.logger.WarnContext(ctx, "logout request failed", "error", err)
	}

	clearErr := m.store.Clear(ctx, scope)
	if err := m.store.SaveUser(ctx, nil); err != nil {
		m.logger.WarnContext(ctx, "clear cached profile failed", "error", err)
	}

	m.transition(func(s *Snapshot) {
		resetIdentity(s)
		s.IsLoading = false
		s.Err = nil
	})
	return clearErr
}

// Refresh rotates the scope's access token and returns the new one. Only
// the access token changes on success; the profile and refresh token stay
// put. Any failure, including a missing refresh token (which never reaches
// the network), is fatal for the scope: credentials are cleared and the
// session resets to anonymous. Implements ports.Refresher.
func (m *Manager) Refresh(ctx context.Context, scope domainauth.Scope) (string, error) {
	refreshToken := m.refreshTokenFor(ctx, scope)
	if refreshToken == "" {
		err := apperrors.RefreshFailed(nil, "no refresh token for scope "+string(scope))
		m.failRefresh(ctx, scope, err)
		return "", err
	}

	var result struct {
		Access string `json:"access"`
	}
	body := map[string]string{"refresh": refreshToken}
	if err := m.client.PostJSON(ctx, m.endpoints.Refresh, body, &result); err != nil {
		wrapped := apperrors.RefreshFailed(err, "refresh endpoint rejected token")
		m.failRefresh(ctx, scope, wrapped)
		return "", wrapped
	}
	if result.Access == "" {
		err := apperrors.RefreshFailed(nil, "refresh response carried no access token")
		m.failRefresh(ctx, scope, err)
		return "", err
	}

	creds := domainauth.Credentials{AccessToken: result.Access, RefreshToken: refreshToken}
	if err := m.store.Save(ctx, scope, creds); err != nil {
		m.logger.WarnContext(ctx, "persist rotated token failed", "scope", string(scope), "error", err)
	}

	m.transition(func(s *Snapshot) {
		// Mirror the rotated token into the snapshot only when the refreshed
		// scope is the session's active scope; a cross-scope refresh updates
		// the store alone.
		if !s.IsAuthenticated || s.IsSuperAdmin != (scope == domainauth.ScopeSuperAdmin) {
			return
		}
		s.AccessToken = result.Access
		s.Err = nil
	})
	return result.Access, nil
}

// refreshTokenFor reads the scope's refresh token from session state,
// falling back to the credential store.
func (m *Manager) refreshTokenFor(ctx context.Context, scope domainauth.Scope) string {
	m.mu.Lock()
	stateScope := domainauth.ScopeStandard
	if m.state.IsSuperAdmin {
		stateScope = domainauth.ScopeSuperAdmin
	}
	token := ""
	if stateScope == scope {
		token = m.state.RefreshToken
	}
	m.mu.Unlock()

	if token != "" {
		return token
	}
	creds, err := m.store.Load(ctx, scope)
	if err != nil {
		m.logger.WarnContext(ctx, "load refresh token failed", "scope", string(scope), "error", err)
		return ""
	}
	return creds.RefreshToken
}

// fail records a login failure: all identity fields reset together and Err
// carries the server's payload (or a generic one).
func (m *Manager) fail(err error) {
	m.transition(func(s *Snapshot) {
		resetIdentity(s)
		s.IsLoading = false
		s.Err = errPayload(err)
	})
}

// failRefresh is fail plus clearing the scope's stored credentials.
func (m *Manager) failRefresh(ctx context.Context, scope domainauth.Scope, err error) {
	if clearErr := m.store.Clear(ctx, scope); clearErr != nil {
		m.logger.WarnContext(ctx, "clear credentials failed", "scope", string(scope), "error", clearErr)
	}
	if saveErr := m.store.SaveUser(ctx, nil); saveErr != nil {
		m.logger.WarnContext(ctx, "clear cached profile failed", "error", saveErr)
	}
	m.fail(err)
}

// errPayload surfaces the server's error body verbatim when there is one.
func errPayload(err error) any {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Payload()
	}
	return map[string]any{"detail": fmt.Sprintf("request failed: %v", err)}
}

// transition applies a mutation under the lock and notifies subscribers
// outside it.
func (m *Manager) transition(mutate func(*Snapshot)) {
	m.mu.Lock()
	mutate(&m.state)
	snap := m.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := m.state
	if m.state.User != nil {
		user := *m.state.User
		snap.User = &user
	}
	return snap
}

// resetIdentity clears the four identity fields as one unit.
func resetIdentity(s *Snapshot) {
	s.User = nil
	s.AccessToken = ""
	s.RefreshToken = ""
	s.IsAuthenticated = false
	s.IsSuperAdmin = false
}
