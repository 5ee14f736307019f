package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
)

// AssessmentRepository provides data access for assessments.
type AssessmentRepository interface {
	// Create inserts the assessment. A missing student yields ErrNotFound.
	Create(ctx context.Context, assessment *models.Assessment) error
	// GetByID returns the assessment with its student.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error)
	// List returns assessments with their students, newest assessment_date
	// first, optionally restricted to one student.
	List(ctx context.Context, studentID *uuid.UUID) ([]*models.Assessment, error)
	// Update applies the non-nil fields of update and stamps updated_at.
	Update(ctx context.Context, id uuid.UUID, update *models.AssessmentUpdate) (*models.Assessment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssessmentStatus) error
	// Delete removes the assessment row only. Ratings must be removed first.
	Delete(ctx context.Context, id uuid.UUID) error
}

type assessmentRepository struct{}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository() AssessmentRepository {
	return &assessmentRepository{}
}

var _ AssessmentRepository = (*assessmentRepository)(nil)

const assessmentColumns = `a.id, a.student_id, a.assessor_id, a.assessment_date, a.assessment_period,
		       a.status, a.notes, a.created_at, a.updated_at`

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	err = scope.Conn.QueryRow(ctx, `
		INSERT INTO assessments (
			student_id, assessor_id, assessment_date, assessment_period,
			status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		assessment.StudentID,
		assessment.AssessorID,
		assessment.AssessmentDate,
		assessment.AssessmentPeriod,
		assessment.Status,
		assessment.Notes,
		now,
		now,
	).Scan(&assessment.ID, &assessment.CreatedAt, &assessment.UpdatedAt)
	return mapError(err, "create assessment")
}

func (r *assessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	row := scope.Conn.QueryRow(ctx, `
		SELECT `+assessmentColumns+`, `+studentColumns+`
		FROM assessments a
		JOIN students s ON s.id = a.student_id
		WHERE a.id = $1`, id)

	assessment, err := scanAssessmentWithStudent(row)
	if err != nil {
		return nil, mapError(err, "get assessment")
	}
	return assessment, nil
}

func (r *assessmentRepository) List(ctx context.Context, studentID *uuid.UUID) ([]*models.Assessment, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + assessmentColumns + `, ` + studentColumns + `
		FROM assessments a
		JOIN students s ON s.id = a.student_id`
	var args []any
	if studentID != nil {
		query += ` WHERE a.student_id = $1`
		args = append(args, *studentID)
	}
	query += ` ORDER BY a.assessment_date DESC, a.created_at DESC`

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	assessments := make([]*models.Assessment, 0)
	for rows.Next() {
		assessment, err := scanAssessmentWithStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, assessment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessments: %w", err)
	}
	return assessments, nil
}

func (r *assessmentRepository) Update(ctx context.Context, id uuid.UUID, update *models.AssessmentUpdate) (*models.Assessment, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	sets := []string{"updated_at = $1"}
	args := []any{time.Now(), id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.AssessmentDate != nil {
		add("assessment_date", *update.AssessmentDate)
	}
	if update.AssessmentPeriod != nil {
		add("assessment_period", *update.AssessmentPeriod)
	}
	if update.Notes != nil {
		add("notes", *update.Notes)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}

	query := `
		UPDATE assessments a
		SET ` + strings.Join(sets, ", ") + `
		WHERE a.id = $2
		RETURNING ` + assessmentColumns

	assessment, err := scanAssessment(scope.Conn.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError(err, "update assessment")
	}
	return assessment, nil
}

func (r *assessmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AssessmentStatus) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	result, err := scope.Conn.Exec(ctx, `
		UPDATE assessments
		SET status = $2, updated_at = $3
		WHERE id = $1`, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update assessment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	result, err := scope.Conn.Exec(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		// Ratings still reference the row.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("delete assessment: ratings remain: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func assessmentFields(a *models.Assessment) []any {
	return []any{
		&a.ID,
		&a.StudentID,
		&a.AssessorID,
		&a.AssessmentDate,
		&a.AssessmentPeriod,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}

func scanAssessment(row pgx.Row) (*models.Assessment, error) {
	var a models.Assessment
	if err := row.Scan(assessmentFields(&a)...); err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAssessmentWithStudent(row pgx.Row) (*models.Assessment, error) {
	var a models.Assessment
	var s models.Student
	dest := append(assessmentFields(&a),
		&s.ID,
		&s.FirstName,
		&s.LastName,
		&s.Birthdate,
		&s.Grade,
		&s.Class,
		&s.Notes,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	a.Student = &s
	return &a, nil
}
