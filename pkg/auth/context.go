// Package auth provides context helpers for extracting authentication information
// from request contexts. These helpers simplify access to JWT claims that are
// injected by the auth middleware.
//
// Example usage in a service:
//
//	func (s *Service) Create(ctx context.Context, input CreateInput) error {
//	    assessorID, err := auth.RequireUserIDFromContext(ctx)
//	    if err != nil {
//	        return err // matches apperrors.ErrUnauthenticated
//	    }
//	    // ...
//	}
package auth

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
)

// GetUserIDFromContext extracts the user ID from JWT claims in the context.
// Returns empty string if not authenticated or claims are missing.
// Use this when you only need the user ID and can handle empty string gracefully.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// RequireUserIDFromContext extracts the user ID from context and returns an error if not found.
// The error matches apperrors.ErrUnauthenticated.
func RequireUserIDFromContext(ctx context.Context) (string, error) {
	userID := GetUserIDFromContext(ctx)
	if userID == "" {
		return "", fmt.Errorf("user ID not found in context: %w", apperrors.ErrUnauthenticated)
	}
	return userID, nil
}

// GetEmailFromContext extracts the caller's email from JWT claims.
// Returns empty string if not present.
func GetEmailFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Email
}
