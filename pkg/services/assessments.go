package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/auth"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
)

// CreateAssessmentInput is the request body for starting an assessment.
type CreateAssessmentInput struct {
	StudentID        uuid.UUID               `json:"student_id" validate:"required"`
	AssessmentDate   *models.Date            `json:"assessment_date" validate:"required"`
	AssessmentPeriod models.AssessmentPeriod `json:"assessment_period" validate:"required,oneof=Fall Winter Spring"`
	Notes            *string                 `json:"notes,omitempty"`
}

// UpdateAssessmentInput carries a partial update. Absent fields are left as
// they are.
type UpdateAssessmentInput struct {
	AssessmentDate   *models.Date             `json:"assessment_date,omitempty"`
	AssessmentPeriod *models.AssessmentPeriod `json:"assessment_period,omitempty" validate:"omitempty,oneof=Fall Winter Spring"`
	Notes            *string                  `json:"notes,omitempty"`
	Status           *models.AssessmentStatus `json:"status,omitempty" validate:"omitempty,oneof=draft in-progress complete"`
}

// AssessmentService manages assessments and their lifecycle.
type AssessmentService interface {
	// Create starts a draft assessment with the caller as assessor.
	Create(ctx context.Context, input *CreateAssessmentInput) (*models.Assessment, error)

	// Get returns the assessment with its student and ratings.
	Get(ctx context.Context, id uuid.UUID) (*models.AssessmentDetail, error)

	Update(ctx context.Context, id uuid.UUID, input *UpdateAssessmentInput) (*models.Assessment, error)

	// Delete removes the assessment's ratings and observations, then the
	// assessment. The steps are not atomic; a failed second step leaves the
	// ratings deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns assessments newest first, optionally for one student.
	List(ctx context.Context, studentID *uuid.UUID) ([]*models.Assessment, error)

	// Summary reports rating progress per domain for the assessment.
	Summary(ctx context.Context, id uuid.UUID) ([]*models.DomainSummary, error)
}

type assessmentService struct {
	assessments repositories.AssessmentRepository
	ratings     repositories.RatingRepository
	reference   ReferenceService
	logger      *zap.Logger
}

// NewAssessmentService creates a new assessment service.
func NewAssessmentService(
	assessments repositories.AssessmentRepository,
	ratings repositories.RatingRepository,
	reference ReferenceService,
	logger *zap.Logger,
) AssessmentService {
	return &assessmentService{
		assessments: assessments,
		ratings:     ratings,
		reference:   reference,
		logger:      logger.Named("assessments"),
	}
}

var _ AssessmentService = (*assessmentService)(nil)

func (s *assessmentService) Create(ctx context.Context, input *CreateAssessmentInput) (*models.Assessment, error) {
	assessorID, err := auth.RequireUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	assessment := &models.Assessment{
		StudentID:        input.StudentID,
		AssessorID:       assessorID,
		AssessmentDate:   *input.AssessmentDate,
		AssessmentPeriod: input.AssessmentPeriod,
		Status:           models.StatusDraft,
		Notes:            input.Notes,
	}
	if err := s.assessments.Create(ctx, assessment); err != nil {
		return nil, err
	}

	s.logger.Info("Created assessment",
		zap.String("assessment_id", assessment.ID.String()),
		zap.String("student_id", assessment.StudentID.String()),
		zap.String("assessor_id", assessorID))
	return assessment, nil
}

func (s *assessmentService) Get(ctx context.Context, id uuid.UUID) (*models.AssessmentDetail, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ratings, err := s.ratings.ListByAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []*models.Rating{}
	}

	return &models.AssessmentDetail{Assessment: assessment, Ratings: ratings}, nil
}

func (s *assessmentService) Update(ctx context.Context, id uuid.UUID, input *UpdateAssessmentInput) (*models.Assessment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	update := &models.AssessmentUpdate{
		AssessmentDate:   input.AssessmentDate,
		AssessmentPeriod: input.AssessmentPeriod,
		Notes:            input.Notes,
		Status:           input.Status,
	}
	// Nothing to change: return the row without touching updated_at.
	if update.IsEmpty() {
		return s.assessments.GetByID(ctx, id)
	}
	return s.assessments.Update(ctx, id, update)
}

func (s *assessmentService) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.ratings.DeleteByAssessment(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete ratings: %w", err)
	}

	if err := s.assessments.Delete(ctx, id); err != nil {
		if removed > 0 {
			s.logger.Warn("Assessment delete failed after its ratings were removed",
				zap.String("assessment_id", id.String()),
				zap.Int64("ratings_removed", removed),
				zap.Error(err))
		}
		return fmt.Errorf("failed to delete assessment: %w", err)
	}

	s.logger.Info("Deleted assessment",
		zap.String("assessment_id", id.String()),
		zap.Int64("ratings_removed", removed))
	return nil
}

func (s *assessmentService) List(ctx context.Context, studentID *uuid.UUID) ([]*models.Assessment, error) {
	return s.assessments.List(ctx, studentID)
}

func (s *assessmentService) Summary(ctx context.Context, id uuid.UUID) ([]*models.DomainSummary, error) {
	if _, err := s.assessments.GetByID(ctx, id); err != nil {
		return nil, err
	}

	domains, err := s.reference.ListDomainsWithMeasures(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := s.reference.ListDevelopmentalLevels(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratings.ListByAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	return ComputeDomainSummaries(domains, levels, ratings), nil
}
