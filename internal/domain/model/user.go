package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/fincompass/console/internal/domain/auth"
)

const (
	maxUsernameLen = 255
	maxUserNameLen = 255
	minPasswordLen = 8
)

// User represents an administrative user of the console.
// PasswordHash is opaque and must never be serialized to clients.
type User struct {
	ID           int64           `json:"id"                   db:"id"`
	Username     string          `json:"username"             db:"username"`
	Name         string          `json:"name"                 db:"name"`
	PasswordHash string          `json:"-"                    db:"password_hash"`
	Role         domainauth.Role `json:"role"                 db:"role"`
	IsActive     bool            `json:"is_active"            db:"is_active"`
	CreatedBy    *int64          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time       `json:"created_at"           db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"           db:"updated_at"`
}

// UserSummary is the reduced shape returned alongside records that reference
// their creator (weak audit reference, lookup only).
type UserSummary struct {
	ID       int64  `json:"id"       db:"id"`
	Username string `json:"username" db:"username"`
	Name     string `json:"name"     db:"name"`
}

// Summary returns the client-safe reduced shape of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Name: u.Name}
}

// CreateUserRequest represents parameters to create a User.
// Password is plaintext here; hashing happens in the service layer.
type CreateUserRequest struct {
	Username  string          `json:"username"`
	Name      string          `json:"name"`
	Password  string          `json:"password"`
	Role      domainauth.Role `json:"role,omitempty"`
	CreatedBy *int64          `json:"-"`
}

// UpdateUserRequest represents parameters to update a User.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Validate validates CreateUserRequest and normalizes the username.
func (r *CreateUserRequest) Validate() error {
	r.Username = domainauth.NormalizeUsername(r.Username)
	if r.Username == "" {
		return errors.New("username is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Username) > maxUsernameLen {
		return errors.New("username cannot exceed 255 characters")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.Name) > maxUserNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if r.Role == "" {
		r.Role = domainauth.RoleAdmin
	}
	if !r.Role.Valid() {
		return errors.New("invalid role")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateUserRequest.
func (r *UpdateUserRequest) HasUpdates() bool {
	return r.Name != nil || r.Password != nil || r.IsActive != nil
}

// Validate validates UpdateUserRequest, ensuring at least one field is set and values are sane.
func (r *UpdateUserRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Password != nil && utf8.RuneCountInString(*r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
