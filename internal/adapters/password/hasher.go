// Package password provides bcrypt-based credential hashing for local
// authentication.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords using bcrypt with a configured cost.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher. Costs outside bcrypt's supported range fall
// back to a work factor suitable for interactive logins.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored hash. A malformed or
// empty stored hash is treated as a mismatch, never a panic: directory
// accounts carry placeholder hashes that must simply fail verification.
func (h *Hasher) Verify(hashed, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err == nil {
		return true
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false
	}
	// Malformed hash, truncated value, unknown version prefix.
	return false
}
