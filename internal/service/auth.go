package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fincompass/console/internal/adapters/directory"
	domainauth "github.com/fincompass/console/internal/domain/auth"
	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"
	"github.com/fincompass/console/internal/ports"
)

// Bootstrap admin credentials for first-run setup. The account exists so
// a fresh deployment can be entered at all; operators are expected to
// change the password immediately.
const (
	bootstrapAdminUsername = "admin"
	bootstrapAdminPassword = "admin123"
	bootstrapAdminName     = "Administrator"
)

// errInvalidCredentials is the single error surfaced for every credential
// failure: unknown user, wrong password, inactive account, and directory
// rejection are indistinguishable to the caller.
func errInvalidCredentials() *apperrors.AppError {
	return apperrors.Unauthorized("Invalid username or password")
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users      ports.UserStore
	Hasher     ports.CredentialHasher
	Tokens     ports.TokenCodec
	Directory  ports.DirectoryAuthenticator // nil when local mode
	Reconciler *IdentityReconciler          // nil when local mode
	Logger     *slog.Logger
}

// AuthService orchestrates credential verification, account
// reconciliation, and session token issuance. The verification strategy
// (local store vs directory) is fixed at construction.
type AuthService struct {
	users      ports.UserStore
	hasher     ports.CredentialHasher
	tokens     ports.TokenCodec
	directory  ports.DirectoryAuthenticator
	reconciler *IdentityReconciler
	logger     *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		users:      opts.Users,
		hasher:     opts.Hasher,
		tokens:     opts.Tokens,
		directory:  opts.Directory,
		reconciler: opts.Reconciler,
		logger:     opts.Logger,
	}
}

// LoginResult contains the authenticated user and their session token.
type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = domainauth.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, errInvalidCredentials()
	}

	var (
		user *model.User
		err  error
	)
	if s.directory != nil {
		user, err = s.loginDirectory(ctx, username, password)
	} else {
		user, err = s.loginLocal(ctx, username, password)
	}
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("failed to issue session token", "username", username, "error", err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to issue session token")
	}

	s.logger.Info("user logged in", "username", username, "user_id", user.ID)
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) loginLocal(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errInvalidCredentials()
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, errInvalidCredentials()
	}
	return user, nil
}

func (s *AuthService) loginDirectory(ctx context.Context, username, password string) (*model.User, error) {
	identity, err := s.directory.Authenticate(ctx, username, password)
	if err != nil {
		switch {
		case errors.Is(err, directory.ErrInvalidCredentials):
			return nil, errInvalidCredentials()
		case errors.Is(err, directory.ErrUnavailable), errors.Is(err, directory.ErrProtocol):
			s.logger.Error("directory authentication failed", "username", username, "error", err)
			return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Authentication service is unavailable. Please try again later.")
		default:
			return nil, err
		}
	}
	return s.reconciler.Reconcile(ctx, identity)
}

// CurrentUser fully verifies a session token and loads its user. A token
// for a deactivated or deleted account is rejected even when the token
// itself is still valid.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, *domainauth.TokenClaims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil, errInvalidCredentials()
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil, errInvalidCredentials()
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, errInvalidCredentials()
	}
	return user, claims, nil
}

// Setup creates the bootstrap admin account. It is only permitted while
// the user table is empty; afterwards it reports a conflict.
func (s *AuthService) Setup(ctx context.Context) (*model.User, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.Conflict("Setup has already been completed")
	}

	hash, err := s.hasher.Hash(bootstrapAdminPassword)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to hash bootstrap password")
	}

	user, err := s.users.Create(ctx, &model.CreateUserRequest{
		Username: bootstrapAdminUsername,
		Name:     bootstrapAdminName,
		Role:     domainauth.RoleAdmin,
	}, hash)
	if err != nil {
		// A concurrent setup call won the race.
		if apperrors.IsConflict(err) {
			return nil, apperrors.Conflict("Setup has already been completed")
		}
		return nil, err
	}

	s.logger.Info("bootstrap admin created", "username", user.Username, "user_id", user.ID)
	return user, nil
}
