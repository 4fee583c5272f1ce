package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeLocal verifies credentials against the local user store.
	AuthModeLocal AuthMode = "local"
	// AuthModeLDAP verifies credentials against an external LDAP directory.
	AuthModeLDAP AuthMode = "ldap"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "local", "ldap":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: local, ldap)", v)
	}
}

// TokenConfig contains session token configuration.
type TokenConfig struct {
	// Secret is the HMAC signing secret for session tokens.
	// There is deliberately no default: the process refuses to start
	// without one rather than signing with a known value.
	Secret string `env:"JWT_SECRET"`

	// TTL is the session token validity window.
	TTL time.Duration `env:"JWT_TTL" envDefault:"168h"`
}

// LDAPConfig contains directory service configuration (used when Mode=ldap).
type LDAPConfig struct {
	// URL is the directory endpoint, e.g. "ldaps://ldap.example.com:636".
	URL string `env:"URL"`

	// BaseDN is the search base for user lookups.
	BaseDN string `env:"BASE_DN"`

	// UserAttribute is the attribute matched against the login username.
	UserAttribute string `env:"USER_ATTRIBUTE" envDefault:"sAMAccountName"`

	// BindDN and BindPassword enable search-then-bind via a service
	// account. When empty, a direct bind with a templated DN is used.
	BindDN       string `env:"BIND_DN"`
	BindPassword string `env:"BIND_PASSWORD"`

	// UPNSuffix, when set, is appended to unqualified usernames to form
	// the bind identity (e.g. "example.com" -> "alice@example.com").
	UPNSuffix string `env:"UPN_SUFFIX"`

	// StartTLS upgrades plaintext connections before binding.
	StartTLS bool `env:"STARTTLS" envDefault:"false"`

	// Timeout bounds dial and bind operations.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which credential verification path to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"local"`

	// Token configuration for issuing and verifying session tokens.
	Token TokenConfig

	// LDAP configuration (used when Mode=ldap).
	LDAP LDAPConfig `envPrefix:"LDAP_"`

	// BcryptCost is the work factor for local password hashing.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	// bcrypt rejects costs outside [4,31]; clamp to a sane interactive range.
	if a.BcryptCost < 10 {
		a.BcryptCost = 10
	}
	if a.BcryptCost > 15 {
		a.BcryptCost = 15
	}
	if a.Token.TTL <= 0 {
		a.Token.TTL = 168 * time.Hour
	}
}

// Validate reports configuration errors that must stop the process at
// startup rather than fail per-request.
func (a *AuthConfig) Validate() error {
	if strings.TrimSpace(a.Token.Secret) == "" {
		return fmt.Errorf("JWT_SECRET is required; refusing to start with an empty signing secret")
	}
	if a.Mode == AuthModeLDAP {
		if strings.TrimSpace(a.LDAP.URL) == "" {
			return fmt.Errorf("LDAP_URL is required when AUTH_MODE=ldap")
		}
		if strings.TrimSpace(a.LDAP.BaseDN) == "" {
			return fmt.Errorf("LDAP_BASE_DN is required when AUTH_MODE=ldap")
		}
	}
	return nil
}
