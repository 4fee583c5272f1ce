package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincompass/console/internal/adapters/directory"
	domainauth "github.com/fincompass/console/internal/domain/auth"
	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"
	authmocks "github.com/fincompass/console/internal/mocks/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedActiveUser(store *authmocks.MemoryUserStore, username, password string) *model.User {
	return store.Seed(&model.User{
		Username:     username,
		Name:         "Test User",
		PasswordHash: "hashed:" + password,
		Role:         domainauth.RoleAdmin,
		IsActive:     true,
	})
}

func newLocalAuthService(store *authmocks.MemoryUserStore) *AuthService {
	return NewAuthService(AuthServiceOptions{
		Users:  store,
		Hasher: authmocks.FakeHasher{},
		Tokens: &authmocks.MockTokenCodec{},
		Logger: discardLogger(),
	})
}

func TestAuthService_LoginLocal(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	seedActiveUser(store, "alice", "correct-password")
	svc := newLocalAuthService(store)

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(context.Background(), "Alice", "correct-password")
		require.NoError(t, err)
		assert.Equal(t, "alice", res.User.Username)
		assert.NotEmpty(t, res.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice", "wrong")
		assert.True(t, apperrors.IsUnauthorized(err))
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		_, wrongPw := svc.Login(context.Background(), "alice", "wrong")
		_, unknown := svc.Login(context.Background(), "nobody", "whatever")
		assert.Equal(t, wrongPw.Error(), unknown.Error())
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "", "")
		assert.True(t, apperrors.IsUnauthorized(err))
	})
}

func TestAuthService_LoginInactiveUser(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	user := seedActiveUser(store, "alice", "correct-password")
	user.IsActive = false
	svc := newLocalAuthService(store)

	_, err := svc.Login(context.Background(), "alice", "correct-password")
	assert.True(t, apperrors.IsUnauthorized(err), "correct password must not log in a deactivated account")
}

func TestAuthService_LoginDirectory(t *testing.T) {
	newDirService := func(store *authmocks.MemoryUserStore, dir *authmocks.MockDirectory) *AuthService {
		return NewAuthService(AuthServiceOptions{
			Users:      store,
			Hasher:     authmocks.FakeHasher{},
			Tokens:     &authmocks.MockTokenCodec{},
			Directory:  dir,
			Reconciler: NewIdentityReconciler(store, authmocks.FakeHasher{}, discardLogger()),
			Logger:     discardLogger(),
		})
	}

	t.Run("first login provisions account", func(t *testing.T) {
		store := authmocks.NewMemoryUserStore()
		dir := &authmocks.MockDirectory{AuthenticateFunc: func(context.Context, string, string) (*domainauth.DirectoryIdentity, error) {
			return &domainauth.DirectoryIdentity{Username: "alice", DisplayName: "Alice Liddell"}, nil
		}}
		svc := newDirService(store, dir)

		res, err := svc.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, "Alice Liddell", res.User.Name)
		assert.Equal(t, domainauth.RoleAdmin, res.User.Role)

		// Second login reuses the same account.
		again, err := svc.Login(context.Background(), "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, again.User.ID)
	})

	t.Run("directory rejection is a generic credential error", func(t *testing.T) {
		store := authmocks.NewMemoryUserStore()
		dir := &authmocks.MockDirectory{AuthenticateFunc: func(context.Context, string, string) (*domainauth.DirectoryIdentity, error) {
			return nil, directory.ErrInvalidCredentials
		}}
		svc := newDirService(store, dir)

		_, err := svc.Login(context.Background(), "alice", "bad")
		assert.True(t, apperrors.IsUnauthorized(err))
	})

	t.Run("unreachable directory is not a credential error", func(t *testing.T) {
		store := authmocks.NewMemoryUserStore()
		dir := &authmocks.MockDirectory{AuthenticateFunc: func(context.Context, string, string) (*domainauth.DirectoryIdentity, error) {
			return nil, directory.ErrUnavailable
		}}
		svc := newDirService(store, dir)

		_, err := svc.Login(context.Background(), "alice", "secret")
		assert.True(t, apperrors.IsUnavailable(err))
		assert.False(t, apperrors.IsUnauthorized(err))
	})

	t.Run("deactivated account is not reactivated by directory login", func(t *testing.T) {
		store := authmocks.NewMemoryUserStore()
		user := seedActiveUser(store, "alice", "unused")
		user.IsActive = false
		dir := &authmocks.MockDirectory{AuthenticateFunc: func(context.Context, string, string) (*domainauth.DirectoryIdentity, error) {
			return &domainauth.DirectoryIdentity{Username: "alice", DisplayName: "Alice Liddell"}, nil
		}}
		svc := newDirService(store, dir)

		_, err := svc.Login(context.Background(), "alice", "secret")
		assert.True(t, apperrors.IsUnauthorized(err))

		stored, err := store.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.False(t, stored.IsActive)
	})
}

func TestAuthService_CurrentUser(t *testing.T) {
	store := authmocks.NewMemoryUserStore()
	user := seedActiveUser(store, "alice", "pw")

	tokens := &authmocks.MockTokenCodec{VerifyFunc: func(token string) (*domainauth.TokenClaims, error) {
		if token == "good" {
			return &domainauth.TokenClaims{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
		}
		return nil, assert.AnError
	}}
	svc := NewAuthService(AuthServiceOptions{
		Users:  store,
		Hasher: authmocks.FakeHasher{},
		Tokens: tokens,
		Logger: discardLogger(),
	})

	t.Run("valid token", func(t *testing.T) {
		got, claims, err := svc.CurrentUser(context.Background(), "good")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Username, claims.Username)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, _, err := svc.CurrentUser(context.Background(), "bad")
		assert.True(t, apperrors.IsUnauthorized(err))
	})

	t.Run("deactivated account rejected despite valid token", func(t *testing.T) {
		user.IsActive = false
		store.Seed(user)
		_, _, err := svc.CurrentUser(context.Background(), "good")
		assert.True(t, apperrors.IsUnauthorized(err))
		user.IsActive = true
		store.Seed(user)
	})
}

func TestAuthService_Setup(t *testing.T) {
	t.Run("creates admin on empty store", func(t *testing.T) {
		store := authmocks.NewMemoryUserStore()
		svc := newLocalAuthService(store)

		user, err := svc.Setup(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "admin", user.Username)

		// The bootstrap admin can actually log in.
		_, err = svc.Login(context.Background(), "admin", "admin123")
		assert.NoError(t, err)
	})

	t.Run("refused once any user exists", func(t *testing.T) {
		store := authmocks.NewMemoryUserStore()
		seedActiveUser(store, "alice", "pw")
		svc := newLocalAuthService(store)

		_, err := svc.Setup(context.Background())
		assert.True(t, apperrors.IsConflict(err))
	})
}
