package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
)

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{
			name: "no claims",
			ctx:  context.Background(),
			want: "",
		},
		{
			name: "nil claims",
			ctx:  context.WithValue(context.Background(), ClaimsKey, (*Claims)(nil)),
			want: "",
		},
		{
			name: "with subject",
			ctx: WithClaims(context.Background(), &Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
			}),
			want: "user-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetUserIDFromContext(tt.ctx); got != tt.want {
				t.Errorf("GetUserIDFromContext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireUserIDFromContext(t *testing.T) {
	_, err := RequireUserIDFromContext(context.Background())
	if err == nil {
		t.Fatal("expected error without claims")
	}
	if !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}

	ctx := WithClaims(context.Background(), &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-456"},
	})
	userID, err := RequireUserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "user-456" {
		t.Errorf("expected 'user-456', got %q", userID)
	}
}

func TestGetEmailFromContext(t *testing.T) {
	if got := GetEmailFromContext(context.Background()); got != "" {
		t.Errorf("expected empty email, got %q", got)
	}

	ctx := WithClaims(context.Background(), &Claims{Email: "teacher@example.com"})
	if got := GetEmailFromContext(ctx); got != "teacher@example.com" {
		t.Errorf("expected 'teacher@example.com', got %q", got)
	}
}
