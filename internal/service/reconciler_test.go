package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/fincompass/console/internal/domain/auth"
	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"
	authmocks "github.com/fincompass/console/internal/mocks/auth"
)

func TestIdentityReconciler_CreatesOnFirstLogin(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	rec := NewIdentityReconciler(store, authmocks.FakeHasher{}, discardLogger())

	user, err := rec.Reconcile(context.Background(), &domainauth.DirectoryIdentity{
		Username:    "Alice",
		DisplayName: "Alice Liddell",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice Liddell", user.Name)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash, "directory accounts carry a placeholder hash")

	// The placeholder can never satisfy local password verification.
	assert.False(t, authmocks.FakeHasher{}.Verify(user.PasswordHash, "anything"))
}

func TestIdentityReconciler_IsIdempotent(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	rec := NewIdentityReconciler(store, authmocks.FakeHasher{}, discardLogger())
	identity := &domainauth.DirectoryIdentity{Username: "alice", DisplayName: "Alice Liddell"}

	first, err := rec.Reconcile(context.Background(), identity)
	require.NoError(t, err)
	second, err := rec.Reconcile(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestIdentityReconciler_RefreshesDisplayNameOnly(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	store.Seed(&model.User{
		Username:     "alice",
		Name:         "Old Name",
		PasswordHash: "existing-hash",
		Role:         domainauth.RoleAdmin,
		IsActive:     true,
	})
	rec := NewIdentityReconciler(store, authmocks.FakeHasher{}, discardLogger())

	user, err := rec.Reconcile(context.Background(), &domainauth.DirectoryIdentity{
		Username:    "alice",
		DisplayName: "New Name",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "existing-hash", user.PasswordHash, "stored hash is untouched")
}

func TestIdentityReconciler_EmptyDisplayNameFallsBackToUsername(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	rec := NewIdentityReconciler(store, authmocks.FakeHasher{}, discardLogger())

	user, err := rec.Reconcile(context.Background(), &domainauth.DirectoryIdentity{Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Name)
}

func TestIdentityReconciler_NeverReactivates(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	store.Seed(&model.User{
		Username: "alice",
		Name:     "Alice",
		Role:     domainauth.RoleAdmin,
		IsActive: false,
	})
	rec := NewIdentityReconciler(store, authmocks.FakeHasher{}, discardLogger())

	_, err := rec.Reconcile(context.Background(), &domainauth.DirectoryIdentity{Username: "alice"})
	assert.True(t, apperrors.IsUnauthorized(err))
}
