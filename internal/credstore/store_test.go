package credstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/busbook/busbook/internal/adapters/memory"
	domainauth "github.com/busbook/busbook/internal/domain/auth"
	"github.com/busbook/busbook/internal/mocks"
)

func TestStore_SaveWritesEveryBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mocks.NewMockCredentialBackend(ctrl)
	second := mocks.NewMockCredentialBackend(ctrl)

	creds := domainauth.Credentials{AccessToken: "acc", RefreshToken: "ref"}
	first.EXPECT().SaveTokens(gomock.Any(), domainauth.ScopeStandard, creds).Return(nil)
	second.EXPECT().SaveTokens(gomock.Any(), domainauth.ScopeStandard, creds).Return(nil)

	store := New(first, second)
	require.NoError(t, store.Save(context.Background(), domainauth.ScopeStandard, creds))
}

func TestStore_SaveJoinsBackendErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mocks.NewMockCredentialBackend(ctrl)
	second := mocks.NewMockCredentialBackend(ctrl)

	failure := errors.New("cookie write failed")
	first.EXPECT().SaveTokens(gomock.Any(), gomock.Any(), gomock.Any()).Return(failure)
	// The second backend is still written even when the first fails.
	second.EXPECT().SaveTokens(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	store := New(first, second)
	err := store.Save(context.Background(), domainauth.ScopeStandard, domainauth.Credentials{AccessToken: "a"})

	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
}

func TestStore_ClearRemovesFromEveryBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mocks.NewMockCredentialBackend(ctrl)
	second := mocks.NewMockCredentialBackend(ctrl)

	first.EXPECT().ClearTokens(gomock.Any(), domainauth.ScopeSuperAdmin).Return(nil)
	second.EXPECT().ClearTokens(gomock.Any(), domainauth.ScopeSuperAdmin).Return(nil)

	store := New(first, second)
	require.NoError(t, store.Clear(context.Background(), domainauth.ScopeSuperAdmin))
}

func TestStore_LoadFallsThroughToSecondBackend(t *testing.T) {
	ctx := context.Background()
	first := memory.NewCredentialStore()
	second := memory.NewCredentialStore()

	creds := domainauth.Credentials{AccessToken: "acc", RefreshToken: "ref"}
	require.NoError(t, second.SaveTokens(ctx, domainauth.ScopeStandard, creds))

	store := New(first, second)
	loaded, err := store.Load(ctx, domainauth.ScopeStandard)

	require.NoError(t, err)
	assert.Equal(t, creds, loaded)
}

func TestStore_LoadEmptyWhenNothingSaved(t *testing.T) {
	store := New(memory.NewCredentialStore(), memory.NewCredentialStore())

	loaded, err := store.Load(context.Background(), domainauth.ScopeStandard)

	require.NoError(t, err)
	assert.True(t, loaded.IsZero())
}

func TestStore_ScopeIsolation(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewCredentialStore())

	standard := domainauth.Credentials{AccessToken: "std-acc", RefreshToken: "std-ref"}
	admin := domainauth.Credentials{AccessToken: "adm-acc", RefreshToken: "adm-ref"}
	require.NoError(t, store.Save(ctx, domainauth.ScopeStandard, standard))
	require.NoError(t, store.Save(ctx, domainauth.ScopeSuperAdmin, admin))

	// Saving one scope never alters the other.
	got, err := store.Load(ctx, domainauth.ScopeSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, admin, got)

	// Clearing one scope leaves the other's stored credentials untouched.
	require.NoError(t, store.Clear(ctx, domainauth.ScopeStandard))

	gone, err := store.Load(ctx, domainauth.ScopeStandard)
	require.NoError(t, err)
	assert.True(t, gone.IsZero())

	kept, err := store.Load(ctx, domainauth.ScopeSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, admin, kept)
}

func TestStore_UserProfileSharedSlot(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewCredentialStore())

	p, err := store.LoadUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	profile := &domainauth.Profile{Name: "Karim", Email: "karim@example.com", IsEmployee: true}
	require.NoError(t, store.SaveUser(ctx, profile))

	p, err = store.LoadUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, p)
}
