package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/auth"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
)

// CreateStudentInput is the request body for registering a student.
type CreateStudentInput struct {
	FirstName string       `json:"first_name" validate:"required,max=100"`
	LastName  string       `json:"last_name" validate:"required,max=100"`
	Birthdate *models.Date `json:"birthdate,omitempty"`
	Grade     *string      `json:"grade,omitempty"`
	Class     *string      `json:"class,omitempty"`
	Notes     *string      `json:"notes,omitempty"`
}

// StudentService manages the students being assessed.
type StudentService interface {
	// List returns students ordered by last then first name, optionally
	// filtered by a case-insensitive substring of either name.
	List(ctx context.Context, search string) ([]*models.Student, error)

	// Create registers a student on behalf of the authenticated caller.
	Create(ctx context.Context, input *CreateStudentInput) (*models.Student, error)

	Get(ctx context.Context, id uuid.UUID) (*models.Student, error)
}

type studentService struct {
	repo   repositories.StudentRepository
	logger *zap.Logger
}

// NewStudentService creates a new student service.
func NewStudentService(repo repositories.StudentRepository, logger *zap.Logger) StudentService {
	return &studentService{
		repo:   repo,
		logger: logger.Named("students"),
	}
}

var _ StudentService = (*studentService)(nil)

func (s *studentService) List(ctx context.Context, search string) ([]*models.Student, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

func (s *studentService) Create(ctx context.Context, input *CreateStudentInput) (*models.Student, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	student := &models.Student{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Birthdate: input.Birthdate,
		Grade:     input.Grade,
		Class:     input.Class,
		Notes:     input.Notes,
		CreatedBy: auth.GetUserIDFromContext(ctx),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Debug("Created student",
		zap.String("student_id", student.ID.String()),
		zap.String("created_by", student.CreatedBy),
		zap.String("email", auth.GetEmailFromContext(ctx)))
	return student, nil
}

func (s *studentService) Get(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return s.repo.GetByID(ctx, id)
}
