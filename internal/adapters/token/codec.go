// Package token implements issuing and verification of HS256 session
// tokens. Two verification paths exist: the full path checks the
// signature, and the constrained path checks only token structure and
// claim validity for callers that cannot perform cryptographic
// verification cheaply on every request.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/fincompass/console/internal/domain/auth"
)

// Sentinel errors returned by verification.
var (
	ErrTokenInvalid = errors.New("session token is invalid")
	ErrTokenExpired = errors.New("session token has expired")
)

// sessionClaims is the wire shape of a session token payload.
type sessionClaims struct {
	Username string          `json:"username"`
	Role     domainauth.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies session tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec builds a Codec. The secret must be non-empty; configuration
// validation enforces that before the codec is ever constructed.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a new session token for the given identity and returns the
// compact token string together with its expiry.
func (c *Codec) Issue(userID int64, username string, role domainauth.Role) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.ttl)
	claims := &sessionClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			// A unique token ID so individual sessions can be told apart
			// in logs even for the same user.
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify fully verifies a session token: signature, signing method,
// expiry, and required claims. This is the only path that may be trusted
// for authorization decisions.
func (c *Codec) Verify(tokenStr string) (*domainauth.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return c.toDomainClaims(claims)
}

// VerifyConstrained checks a session token without verifying its
// signature: compact three-segment structure, required claims, expiry,
// and an absolute-age bound derived from the issue time. A token that
// passes here may still fail full verification; callers use this only to
// decide whether a request is worth forwarding, never to authorize it.
func (c *Codec) VerifyConstrained(tokenStr string) (*domainauth.TokenClaims, error) {
	if strings.Count(tokenStr, ".") != 2 {
		return nil, ErrTokenInvalid
	}

	claims := &sessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrTokenInvalid
	}

	// An expiry forged far into the future does not extend a token's
	// life: the issue time bounds its absolute age.
	if claims.IssuedAt == nil {
		return nil, ErrTokenInvalid
	}
	now := c.now()
	if now.Sub(claims.IssuedAt.Time) > c.ttl {
		return nil, ErrTokenExpired
	}
	if claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	if now.After(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return c.toDomainClaims(claims)
}

// toDomainClaims validates required claims and converts the wire shape to
// domain claims. Shared by both verification paths so claim requirements
// cannot drift between them.
func (c *Codec) toDomainClaims(claims *sessionClaims) (*domainauth.TokenClaims, error) {
	if claims.Subject == "" || claims.Username == "" || !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrTokenInvalid
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, ErrTokenInvalid
	}

	return &domainauth.TokenClaims{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
		IssuedAt: claims.IssuedAt.Time,
		Expires:  claims.ExpiresAt.Time,
	}, nil
}
