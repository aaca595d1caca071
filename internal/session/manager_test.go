package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busbook/busbook/internal/adapters/memory"
	"github.com/busbook/busbook/internal/apiclient"
	"github.com/busbook/busbook/internal/credstore"
	domainauth "github.com/busbook/busbook/internal/domain/auth"
	apperrors "github.com/busbook/busbook/internal/errors"
)

var testEndpoints = Endpoints{
	Login:       "/login/",
	AdminMarker: "superadmin",
	Refresh:     "/token/refresh/",
	Logout:      "/logout/",
}

func newTestManager(t *testing.T, handler http.Handler) (*Manager, *credstore.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := credstore.New(memory.NewCredentialStore())
	client, err := apiclient.New(apiclient.Options{
		BaseURL: srv.URL,
		Store:   store,
		ExemptPaths: []string{
			testEndpoints.Login, "/superadmin/login/", testEndpoints.Refresh, testEndpoints.Logout,
		},
	})
	require.NoError(t, err)

	m := NewManager(ManagerOptions{Client: client, Store: store, Endpoints: testEndpoints})
	client.SetRefresher(m)
	return m, store
}

func loginHandler(t *testing.T, body string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func TestLogin_NestedTokensShape(t *testing.T) {
	m, store := newTestManager(t, loginHandler(t,
		`{"user":{"name":"Karim","email":"karim@example.com","is_owner":true},
		  "tokens":{"access":"acc-1","refresh":"ref-1"}}`))

	require.NoError(t, m.Login(context.Background(), "karim", "pw", ""))

	snap := m.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsSuperAdmin)
	assert.Equal(t, "acc-1", snap.AccessToken)
	assert.Equal(t, "ref-1", snap.RefreshToken)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Karim", snap.User.Name)
	assert.Equal(t, domainauth.RoleOwner, snap.Role())

	creds, err := store.Load(context.Background(), domainauth.ScopeStandard)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Credentials{AccessToken: "acc-1", RefreshToken: "ref-1"}, creds)

	profile, err := store.LoadUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Karim", profile.Name)
}

func TestLogin_TopLevelTokensShape(t *testing.T) {
	m, _ := newTestManager(t, loginHandler(t,
		`{"user":{"name":"Karim","is_employee":true},"access":"acc-2","refresh":"ref-2"}`))

	require.NoError(t, m.Login(context.Background(), "karim", "pw", ""))

	snap := m.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "acc-2", snap.AccessToken)
	assert.Equal(t, "ref-2", snap.RefreshToken)
	assert.Equal(t, domainauth.RoleEmployee, snap.Role())
}

func TestLogin_AdminEndpointSelectsSuperAdminScope(t *testing.T) {
	m, store := newTestManager(t, loginHandler(t,
		`{"user":{"name":"Root","is_superuser":true},
		  "tokens":{"access":"admin-acc","refresh":"admin-ref"}}`))

	require.NoError(t, m.Login(context.Background(), "root", "pw", "/superadmin/login/"))

	snap := m.Snapshot()
	assert.True(t, snap.IsSuperAdmin)
	assert.Equal(t, domainauth.RoleSuperAdmin, snap.Role())

	creds, err := store.Load(context.Background(), domainauth.ScopeSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin-acc", creds.AccessToken)

	standard, err := store.Load(context.Background(), domainauth.ScopeStandard)
	require.NoError(t, err)
	assert.True(t, standard.IsZero())
}

func TestLogin_RejectedCredentialsResetIdentity(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid credentials"}`))
	}))

	err := m.Login(context.Background(), "karim", "wrong", "")
	require.Error(t, err)

	snap := m.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.Empty(t, snap.RefreshToken)
	assert.False(t, snap.IsLoading)
	assert.Equal(t, map[string]any{"detail": "invalid credentials"}, snap.Err)

	creds, loadErr := store.Load(context.Background(), domainauth.ScopeStandard)
	require.NoError(t, loadErr)
	assert.True(t, creds.IsZero())
}

func TestLogin_MissingAccessTokenRejected(t *testing.T) {
	m, _ := newTestManager(t, loginHandler(t, `{"user":{"name":"Karim"}}`))

	err := m.Login(context.Background(), "karim", "pw", "")
	require.Error(t, err)
	assert.False(t, m.Snapshot().IsAuthenticated)
}

func TestLogin_OverwritesExistingSession(t *testing.T) {
	var calls atomic.Int32
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(`{"user":{"name":"First"},"access":"acc-1","refresh":"ref-1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user":{"name":"Second"},"access":"acc-2","refresh":"ref-2"}`))
	}))

	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "first", "pw", ""))
	require.NoError(t, m.Login(ctx, "second", "pw", ""))

	snap := m.Snapshot()
	assert.Equal(t, "Second", snap.User.Name)
	assert.Equal(t, "acc-2", snap.AccessToken)
}

// Subscribers must never observe a half-cleared identity: either all four
// identity fields are set, or none are.
func TestTransitions_IdentityFieldsMoveTogether(t *testing.T) {
	var calls atomic.Int32
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"user":{"name":"Karim"},"access":"acc-1","refresh":"ref-1"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid credentials"}`))
	}))

	var seen []Snapshot
	cancel := m.Subscribe(func(s Snapshot) { seen = append(seen, s) })
	defer cancel()

	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "karim", "pw", ""))
	require.Error(t, m.Login(ctx, "karim", "wrong", ""))

	require.NotEmpty(t, seen)
	for _, s := range seen {
		if s.IsAuthenticated {
			assert.NotNil(t, s.User)
			assert.NotEmpty(t, s.AccessToken)
		} else {
			assert.Nil(t, s.User)
			assert.Empty(t, s.AccessToken)
			assert.Empty(t, s.RefreshToken)
			assert.False(t, s.IsSuperAdmin)
		}
	}
}

func TestSubscribe_CancelStopsNotifications(t *testing.T) {
	m, _ := newTestManager(t, loginHandler(t,
		`{"user":{"name":"Karim"},"access":"acc-1","refresh":"ref-1"}`))

	var count atomic.Int32
	cancel := m.Subscribe(func(Snapshot) { count.Add(1) })
	cancel()

	require.NoError(t, m.Login(context.Background(), "karim", "pw", ""))
	assert.Equal(t, int32(0), count.Load())
}

func TestRefresh_RotatesOnlyAccessToken(t *testing.T) {
	var calls atomic.Int32
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == testEndpoints.Login {
			_, _ = w.Write([]byte(`{"user":{"name":"Karim"},"access":"acc-1","refresh":"ref-1"}`))
			return
		}
		calls.Add(1)
		_, _ = w.Write([]byte(`{"access":"acc-2"}`))
	}))

	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "karim", "pw", ""))

	token, err := m.Refresh(ctx, domainauth.ScopeStandard)
	require.NoError(t, err)
	assert.Equal(t, "acc-2", token)
	assert.Equal(t, int32(1), calls.Load())

	snap := m.Snapshot()
	assert.Equal(t, "acc-2", snap.AccessToken)
	assert.Equal(t, "ref-1", snap.RefreshToken)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Karim", snap.User.Name)

	creds, err := store.Load(ctx, domainauth.ScopeStandard)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Credentials{AccessToken: "acc-2", RefreshToken: "ref-1"}, creds)
}

func TestRefresh_OtherScopeLeavesSessionUntouched(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == testEndpoints.Login {
			_, _ = w.Write([]byte(`{"user":{"name":"Karim","is_owner":true},"access":"acc-1","refresh":"ref-1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access":"admin-acc-2"}`))
	}))

	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "karim", "pw", ""))
	require.NoError(t, store.Save(ctx, domainauth.ScopeSuperAdmin,
		domainauth.Credentials{AccessToken: "admin-acc-1", RefreshToken: "admin-ref-1"}))

	token, err := m.Refresh(ctx, domainauth.ScopeSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin-acc-2", token)

	// The standard session stays exactly as the login left it.
	snap := m.Snapshot()
	assert.Equal(t, "acc-1", snap.AccessToken)
	assert.Equal(t, "ref-1", snap.RefreshToken)
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.IsSuperAdmin)

	creds, err := store.Load(ctx, domainauth.ScopeSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Credentials{AccessToken: "admin-acc-2", RefreshToken: "admin-ref-1"}, creds)
}

func TestRefresh_MissingTokenFailsWithoutNetwork(t *testing.T) {
	var requests atomic.Int32
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	_, err := m.Refresh(context.Background(), domainauth.ScopeStandard)
	require.Error(t, err)
	assert.True(t, apperrors.IsRefreshFailed(err))
	assert.Equal(t, int32(0), requests.Load())
}

func TestRefresh_RejectedTokenClearsEverything(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == testEndpoints.Login {
			_, _ = w.Write([]byte(`{"user":{"name":"Karim"},"access":"acc-1","refresh":"ref-1"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"token blacklisted"}`))
	}))

	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "karim", "pw", ""))

	_, err := m.Refresh(ctx, domainauth.ScopeStandard)
	require.Error(t, err)
	assert.True(t, apperrors.IsRefreshFailed(err))

	snap := m.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)

	creds, loadErr := store.Load(ctx, domainauth.ScopeStandard)
	require.NoError(t, loadErr)
	assert.True(t, creds.IsZero())

	profile, profErr := store.LoadUser(ctx)
	require.NoError(t, profErr)
	assert.Nil(t, profile)
}

func TestLogout_ClearsDespiteServerFailure(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == testEndpoints.Login {
			_, _ = w.Write([]byte(`{"user":{"name":"Karim"},"access":"acc-1","refresh":"ref-1"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "karim", "pw", ""))

	require.NoError(t, m.Logout(ctx, domainauth.ScopeStandard))

	snap := m.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)

	creds, err := store.Load(ctx, domainauth.ScopeStandard)
	require.NoError(t, err)
	assert.True(t, creds.IsZero())
}

func TestHydrate_RestoresPersistedSession(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	require.NoError(t, store.SaveUser(ctx, &domainauth.Profile{Name: "Root", IsSuperuser: true}))
	require.NoError(t, store.Save(ctx, domainauth.ScopeSuperAdmin, domainauth.Credentials{
		AccessToken: "admin-acc", RefreshToken: "admin-ref",
	}))

	m.Hydrate(ctx)

	snap := m.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.True(t, snap.IsAuthenticated)
	assert.True(t, snap.IsSuperAdmin)
	assert.Equal(t, "admin-acc", snap.AccessToken)
	require.NotNil(t, snap.User)
	assert.Equal(t, "Root", snap.User.Name)
}

func TestHydrate_EmptyStoreStaysAnonymous(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var sawLoading bool
	cancel := m.Subscribe(func(s Snapshot) {
		if s.IsLoading {
			sawLoading = true
		}
	})
	defer cancel()

	m.Hydrate(context.Background())

	snap := m.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated)
	assert.True(t, sawLoading)
}
