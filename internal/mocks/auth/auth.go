package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"
	"time"

	domainauth "github.com/fincompass/console/internal/domain/auth"
	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"
	"github.com/fincompass/console/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.UserAdminStore         = (*MemoryUserStore)(nil)
	_ ports.CredentialHasher       = (*FakeHasher)(nil)
	_ ports.DirectoryAuthenticator = (*MockDirectory)(nil)
	_ ports.TokenCodec             = (*MockTokenCodec)(nil)
	_ ports.ByteCache              = (*MemoryCache)(nil)
)

// MemoryUserStore is an in-memory ports.UserAdminStore.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1, users: make(map[int64]*model.User)}
}

// Seed inserts a user directly, assigning an ID if unset.
func (s *MemoryUserStore) Seed(user *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.nextID
	}
	if user.ID >= s.nextID {
		s.nextID = user.ID + 1
	}
	s.users[user.ID] = user
	return user
}

func (s *MemoryUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == domainauth.NormalizeUsername(username) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.NotFoundf("user %q not found", username)
}

func (s *MemoryUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperrors.NotFoundf("user %d not found", id)
}

func (s *MemoryUserStore) Create(_ context.Context, req *model.CreateUserRequest, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == req.Username {
			return nil, &apperrors.AppError{
				Code:    apperrors.ErrCodeConflict,
				Message: "This value already exists. Please choose a different one.",
				Field:   "username",
			}
		}
	}
	now := time.Now()
	user := &model.User{
		ID:           s.nextID,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: passwordHash,
		Role:         req.Role,
		IsActive:     true,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.nextID++
	s.users[user.ID] = user
	copied := *user
	return &copied, nil
}

func (s *MemoryUserStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *MemoryUserStore) UpdateDisplayName(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperrors.NotFoundf("user %d not found", id)
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryUserStore) List(_ context.Context, limit, offset int) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		out = append(out, &copied)
	}
	_ = limit
	_ = offset
	return out, nil
}

func (s *MemoryUserStore) Update(_ context.Context, id int64, req model.UpdateUserRequest, passwordHash *string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFoundf("user %d not found", id)
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	u.UpdatedAt = time.Now()
	copied := *u
	return &copied, nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

// FakeHasher is a reversible fake for ports.CredentialHasher. Hashes are
// "hashed:" + plaintext, which keeps test fixtures readable.
type FakeHasher struct{}

func (FakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (FakeHasher) Verify(hashed, plain string) bool {
	return hashed == "hashed:"+plain
}

// MockDirectory is a scripted ports.DirectoryAuthenticator.
type MockDirectory struct {
	AuthenticateFunc func(ctx context.Context, username, password string) (*domainauth.DirectoryIdentity, error)
	Calls            int
}

func (m *MockDirectory) Authenticate(ctx context.Context, username, password string) (*domainauth.DirectoryIdentity, error) {
	m.Calls++
	return m.AuthenticateFunc(ctx, username, password)
}

// MockTokenCodec is a scripted ports.TokenCodec.
type MockTokenCodec struct {
	IssueFunc             func(userID int64, username string, role domainauth.Role) (string, time.Time, error)
	VerifyFunc            func(token string) (*domainauth.TokenClaims, error)
	VerifyConstrainedFunc func(token string) (*domainauth.TokenClaims, error)
}

func (m *MockTokenCodec) Issue(userID int64, username string, role domainauth.Role) (string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(userID, username, role)
	}
	return "mock-token", time.Now().Add(time.Hour), nil
}

func (m *MockTokenCodec) Verify(token string) (*domainauth.TokenClaims, error) {
	return m.VerifyFunc(token)
}

func (m *MockTokenCodec) VerifyConstrained(token string) (*domainauth.TokenClaims, error) {
	if m.VerifyConstrainedFunc != nil {
		return m.VerifyConstrainedFunc(token)
	}
	return m.VerifyFunc(token)
}

// MemoryCache is an in-memory ports.ByteCache without TTL expiry.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.entries[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false, nil
	}
	delete(c.entries, key)
	return true, nil
}
