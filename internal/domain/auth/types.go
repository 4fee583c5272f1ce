package auth

// Package auth contains domain-level types for authentication and session
// tokens. It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and token claims.
// A single role exists in the current scope.
type Role string

const (
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is supported.
func (r Role) Valid() bool { return r == RoleAdmin }

// TokenClaims is the minimal claim set carried by a session token.
// It is produced at login and re-derived from the token on every request.
type TokenClaims struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
	Expires  time.Time `json:"expires"`
}

// DirectoryIdentity is the transient identity produced by a successful
// directory bind and lookup. It is consumed by reconciliation and never
// persisted as-is.
type DirectoryIdentity struct {
	Username          string
	Email             string
	DisplayName       string
	DistinguishedName string
}

// NormalizeUsername lower-cases and trims a username for storage and lookup.
// Usernames are case-insensitive throughout the system.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
