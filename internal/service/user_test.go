package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"
	authmocks "github.com/fincompass/console/internal/mocks/auth"
)

func newUserService(store *authmocks.MemoryUserStore) *UserService {
	return NewUserService(store, authmocks.FakeHasher{}, discardLogger())
}

func TestUserService_Create(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	svc := newUserService(store)

	user, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Username: "Bob",
		Name:     "Bob Smith",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	assert.Equal(t, "hashed:password1", user.PasswordHash)

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &model.CreateUserRequest{
			Username: "bob",
			Name:     "Other Bob",
			Password: "password2",
		})
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("invalid request rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &model.CreateUserRequest{Username: "x", Name: "X", Password: "short"})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestUserService_Update(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	svc := newUserService(store)
	admin := seedActiveUser(store, "admin", "pw")
	target := seedActiveUser(store, "bob", "pw")

	t.Run("rehashes changed password", func(t *testing.T) {
		newPw := "new-password"
		updated, err := svc.Update(context.Background(), admin.ID, target.ID, model.UpdateUserRequest{Password: &newPw})
		require.NoError(t, err)
		assert.Equal(t, "hashed:new-password", updated.PasswordHash)
	})

	t.Run("cannot deactivate self", func(t *testing.T) {
		inactive := false
		_, err := svc.Update(context.Background(), admin.ID, admin.ID, model.UpdateUserRequest{IsActive: &inactive})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("can deactivate others", func(t *testing.T) {
		inactive := false
		updated, err := svc.Update(context.Background(), admin.ID, target.ID, model.UpdateUserRequest{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
	})
}

func TestUserService_Delete(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	svc := newUserService(store)
	admin := seedActiveUser(store, "admin", "pw")
	target := seedActiveUser(store, "bob", "pw")

	t.Run("cannot delete self", func(t *testing.T) {
		_, err := svc.Delete(context.Background(), admin.ID, admin.ID)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("deletes others", func(t *testing.T) {
		deleted, err := svc.Delete(context.Background(), admin.ID, target.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = svc.Delete(context.Background(), admin.ID, target.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
