package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/drdp-engine/pkg/models"
)

// StudentRepository provides data access for students.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	// List returns students ordered by last then first name. A non-empty
	// search keeps only students whose first or last name contains it,
	// ignoring case.
	List(ctx context.Context, search string) ([]*models.Student, error)
}

type studentRepository struct{}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository() StudentRepository {
	return &studentRepository{}
}

var _ StudentRepository = (*studentRepository)(nil)

const studentColumns = `s.id, s.first_name, s.last_name, s.birthdate, s.grade, s.class, s.notes,
		       s.created_by, s.created_at, s.updated_at`

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	// created_by falls back to the scoped connection's user.
	err = scope.Conn.QueryRow(ctx, `
		INSERT INTO students (first_name, last_name, birthdate, grade, class, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6,
		        COALESCE(NULLIF($7, ''), current_setting('app.current_user_id', true), ''))
		RETURNING id, created_by, created_at, updated_at`,
		student.FirstName,
		student.LastName,
		student.Birthdate,
		student.Grade,
		student.Class,
		student.Notes,
		student.CreatedBy,
	).Scan(&student.ID, &student.CreatedBy, &student.CreatedAt, &student.UpdatedAt)
	return mapError(err, "create student")
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	row := scope.Conn.QueryRow(ctx, `SELECT `+studentColumns+` FROM students s WHERE s.id = $1`, id)
	student, err := scanStudent(row)
	if err != nil {
		return nil, mapError(err, "get student")
	}
	return student, nil
}

func (r *studentRepository) List(ctx context.Context, search string) ([]*models.Student, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + studentColumns + ` FROM students s`
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		query += ` WHERE s.first_name ILIKE $1 OR s.last_name ILIKE $1`
		args = append(args, likePattern(search))
	}
	query += ` ORDER BY s.last_name, s.first_name, s.id`

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
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
	if err != nil {
		return nil, err
	}
	return &s, nil
}
