package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
	"github.com/ekaya-inc/drdp-engine/pkg/database"
)

// Store groups the repositories backing the service layer. Both the
// PostgreSQL adapter and the in-memory adapter fill every field.
type Store struct {
	Reference    ReferenceRepository
	Students     StudentRepository
	Assessments  AssessmentRepository
	Ratings      RatingRepository
	Observations ObservationRepository
}

// NewPostgresStore returns the pgx-backed repositories. Every call expects a
// database scope in its context (see database.WithScope).
func NewPostgresStore() *Store {
	return &Store{
		Reference:    NewReferenceRepository(),
		Students:     NewStudentRepository(),
		Assessments:  NewAssessmentRepository(),
		Ratings:      NewRatingRepository(),
		Observations: NewObservationRepository(),
	}
}

// PostgreSQL error codes the repositories translate.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// ============================================================================
// Helper Functions
// ============================================================================

func scopeFrom(ctx context.Context) (*database.Scope, error) {
	scope, ok := database.GetScope(ctx)
	if !ok || scope == nil || scope.Conn == nil {
		return nil, fmt.Errorf("no database scope in context")
	}
	return scope, nil
}

// mapError converts missing rows and dangling references to ErrNotFound and
// wraps everything else with the failed operation.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperrors.ErrNotFound)
		case pgUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, apperrors.ErrConflict)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// likePattern builds a case-insensitive substring pattern for ILIKE, escaping
// the wildcard characters in the user's input.
func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}
