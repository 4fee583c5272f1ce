package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	domainauth "github.com/fincompass/console/internal/domain/auth"
	"github.com/fincompass/console/internal/domain/model"
	apperrors "github.com/fincompass/console/internal/errors"
	"github.com/fincompass/console/internal/ports"
)

// IdentityReconciler maps a directory identity onto a local user account,
// creating the account on first login.
type IdentityReconciler struct {
	users  ports.UserStore
	hasher ports.CredentialHasher
	logger *slog.Logger
}

// NewIdentityReconciler constructs an IdentityReconciler.
func NewIdentityReconciler(users ports.UserStore, hasher ports.CredentialHasher, logger *slog.Logger) *IdentityReconciler {
	return &IdentityReconciler{users: users, hasher: hasher, logger: logger}
}

// Reconcile finds or creates the local account for a directory identity.
// Existing accounts keep their stored role and active flag: a deactivated
// account is never reactivated by a successful directory login, and only
// the display name is refreshed from the directory.
func (r *IdentityReconciler) Reconcile(ctx context.Context, identity *domainauth.DirectoryIdentity) (*model.User, error) {
	username := domainauth.NormalizeUsername(identity.Username)

	user, err := r.users.GetByUsername(ctx, username)
	if err == nil {
		if !user.IsActive {
			return nil, apperrors.Unauthorized("Invalid username or password")
		}
		r.refreshDisplayName(ctx, user, identity.DisplayName)
		return user, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	// The password_hash column is required but never used for directory
	// accounts; fill it with the hash of random bytes nobody knows.
	placeholder, err := r.placeholderHash()
	if err != nil {
		return nil, err
	}

	created, err := r.users.Create(ctx, &model.CreateUserRequest{
		Username: username,
		Name:     displayNameOrUsername(identity, username),
		Role:     domainauth.RoleAdmin,
	}, placeholder)
	if err != nil {
		if apperrors.IsConflict(err) {
			// Lost a create race with a concurrent first login.
			return r.users.GetByUsername(ctx, username)
		}
		return nil, err
	}

	r.logger.Info("provisioned user from directory", "username", username, "user_id", created.ID)
	return created, nil
}

func (r *IdentityReconciler) placeholderHash() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to generate placeholder credential")
	}
	hash, err := r.hasher.Hash(hex.EncodeToString(buf))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to hash placeholder credential")
	}
	return hash, nil
}

// refreshDisplayName updates the stored name when the directory reports a
// different one. Failure here never blocks a login.
func (r *IdentityReconciler) refreshDisplayName(ctx context.Context, user *model.User, displayName string) {
	if displayName == "" || displayName == user.Name {
		return
	}
	if err := r.users.UpdateDisplayName(ctx, user.ID, displayName); err != nil {
		r.logger.Warn("failed to refresh display name", "user_id", user.ID, "error", err)
		return
	}
	user.Name = displayName
}

func displayNameOrUsername(identity *domainauth.DirectoryIdentity, username string) string {
	if identity.DisplayName != "" {
		return identity.DisplayName
	}
	return username
}
