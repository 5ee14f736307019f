// Package auth provides JWT-based authentication for drdp-engine.
// It validates identity provider tokens using JWKS endpoints.
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// Claims represents the JWT claims issued by the identity provider.
// Subject identifies the caller and is recorded as assessor and creator.
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetToken retrieves the raw JWT token string from the request context.
// Returns empty string and false if token is not present.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

// WithClaims returns a context carrying claims, as the middleware does for
// authenticated requests.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// ExtractClaimsFromContext returns the claims and user ID from context.
// Returns error if not authenticated or the subject is missing.
func ExtractClaimsFromContext(ctx context.Context) (*Claims, string, error) {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return nil, "", fmt.Errorf("authentication required: no claims in context")
	}

	if claims.Subject == "" {
		return nil, "", fmt.Errorf("missing user ID in JWT claims")
	}

	return claims, claims.Subject, nil
}
