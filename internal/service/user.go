package service

import (
	"context"
	"log/slog"

	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"
	"github.com/fincompass/console/internal/ports"
)

// UserService manages console user accounts.
type UserService struct {
	users  ports.UserAdminStore
	hasher ports.CredentialHasher
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(users ports.UserAdminStore, hasher ports.CredentialHasher, logger *slog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, logger: logger}
}

// Create validates the request, hashes the password, and stores the user.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, apperrors.Validation("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to hash password")
	}

	user, err := s.users.Create(ctx, req, hash)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "username", user.Username, "user_id", user.ID)
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// List retrieves users, newest first.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	return s.users.List(ctx, limit, offset)
}

// Update applies changes to a user. An actor cannot deactivate their own
// account; that would lock the last admin out mid-session.
func (s *UserService) Update(ctx context.Context, actorID, id int64, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if req.IsActive != nil && !*req.IsActive && actorID == id {
		return nil, apperrors.Validation("You cannot deactivate your own account")
	}

	var passwordHash *string
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to hash password")
		}
		passwordHash = &hash
	}

	user, err := s.users.Update(ctx, id, req, passwordHash)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user updated", "user_id", id)
	return user, nil
}

// Delete removes a user. An actor cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actorID, id int64) (bool, error) {
	if actorID == id {
		return false, apperrors.Validation("You cannot delete your own account")
	}
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("user deleted", "user_id", id)
	}
	return deleted, nil
}
