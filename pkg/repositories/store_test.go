package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperrors.ErrNotFound},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "assessments_student_id_fkey"}, apperrors.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, apperrors.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err, "create assessment"), tt.target)
		})
	}
}

func TestMapError_Other(t *testing.T) {
	assert.NoError(t, mapError(nil, "anything"))

	base := errors.New("connection reset")
	err := mapError(base, "list students")
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "failed to list students: connection reset", err.Error())
}

func TestScopeFrom_Missing(t *testing.T) {
	_, err := scopeFrom(context.Background())
	assert.EqualError(t, err, "no database scope in context")
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%ann%", likePattern("ann"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, likePattern(`a\b`))
}

func TestNewPostgresStore(t *testing.T) {
	store := NewPostgresStore()
	assert.NotNil(t, store.Reference)
	assert.NotNil(t, store.Students)
	assert.NotNil(t, store.Assessments)
	assert.NotNil(t, store.Ratings)
	assert.NotNil(t, store.Observations)
}
