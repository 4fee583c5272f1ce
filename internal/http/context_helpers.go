package httpx

import (
	"context"

	domainauth "github.com/fincompass/console/internal/domain/auth"
)

// claimsKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type claimsKey struct{}

// SetClaimsInContext returns a child context that carries the given token claims.
// If claims is nil, the original ctx is returned unchanged.
func SetClaimsInContext(ctx context.Context, claims *domainauth.TokenClaims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaimsFromContext returns the token claims from context and a boolean indicating presence.
func GetClaimsFromContext(ctx context.Context) (*domainauth.TokenClaims, bool) {
	if claims, ok := ctx.Value(claimsKey{}).(*domainauth.TokenClaims); ok && claims != nil {
		return claims, true
	}
	return nil, false
}
