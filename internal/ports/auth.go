// Package ports declares the interfaces services depend on, keeping
// adapters and storage swappable in tests.
package ports

import (
	"context"
	"time"

	domainauth "github.com/fincompass/console/internal/domain/auth"
	"github.com/fincompass/console/internal/domain/model"
)

// UserStore is the persistence surface the auth flows need.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, req *model.CreateUserRequest, passwordHash string) (*model.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateDisplayName(ctx context.Context, id int64, name string) error
}

// CredentialHasher hashes and verifies local passwords.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(hashed, plain string) bool
}

// DirectoryAuthenticator verifies credentials against an external directory.
type DirectoryAuthenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domainauth.DirectoryIdentity, error)
}

// TokenCodec issues and verifies session tokens.
type TokenCodec interface {
	Issue(userID int64, username string, role domainauth.Role) (string, time.Time, error)
	Verify(token string) (*domainauth.TokenClaims, error)
	VerifyConstrained(token string) (*domainauth.TokenClaims, error)
}

// ByteCache is a TTL-bound byte store for derived data.
type ByteCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
}
