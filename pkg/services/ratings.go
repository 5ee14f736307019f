package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
)

// SaveRatingInput is the request body for rating one measure of an
// assessment.
type SaveRatingInput struct {
	AssessmentID         uuid.UUID `json:"assessment_id" validate:"required"`
	MeasureID            uuid.UUID `json:"measure_id" validate:"required"`
	DevelopmentalLevelID uuid.UUID `json:"developmental_level_id" validate:"required"`
	ObservationNotes     *string   `json:"observation_notes,omitempty"`
}

// RatingService records developmental levels against measures.
type RatingService interface {
	// Save creates or replaces the rating for (assessment, measure), marks
	// the assessment in-progress and returns the rating with its measure and
	// level. The two writes are not atomic.
	Save(ctx context.Context, input *SaveRatingInput) (*models.Rating, error)

	// ListByAssessment returns the assessment's ratings, each with its
	// measure, level and observations.
	ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*models.Rating, error)
}

type ratingService struct {
	ratings      repositories.RatingRepository
	assessments  repositories.AssessmentRepository
	observations repositories.ObservationRepository
	logger       *zap.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(
	ratings repositories.RatingRepository,
	assessments repositories.AssessmentRepository,
	observations repositories.ObservationRepository,
	logger *zap.Logger,
) RatingService {
	return &ratingService{
		ratings:      ratings,
		assessments:  assessments,
		observations: observations,
		logger:       logger.Named("ratings"),
	}
}

var _ RatingService = (*ratingService)(nil)

func (s *ratingService) Save(ctx context.Context, input *SaveRatingInput) (*models.Rating, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	levelID := input.DevelopmentalLevelID
	rating := &models.Rating{
		AssessmentID:         input.AssessmentID,
		MeasureID:            input.MeasureID,
		DevelopmentalLevelID: &levelID,
		ObservationNotes:     input.ObservationNotes,
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	if err := s.assessments.UpdateStatus(ctx, input.AssessmentID, models.StatusInProgress); err != nil {
		s.logger.Warn("Rating saved but assessment status not updated",
			zap.String("rating_id", rating.ID.String()),
			zap.String("assessment_id", input.AssessmentID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update assessment status: %w", err)
	}

	saved, err := s.ratings.GetByID(ctx, rating.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Saved rating",
		zap.String("rating_id", saved.ID.String()),
		zap.String("assessment_id", saved.AssessmentID.String()),
		zap.String("measure_id", saved.MeasureID.String()))
	return saved, nil
}

func (s *ratingService) ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*models.Rating, error) {
	if assessmentID == uuid.Nil {
		return nil, apperrors.NewValidationError("assessment_id", "is required")
	}

	ratings, err := s.ratings.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return []*models.Rating{}, nil
	}

	ids := make([]uuid.UUID, len(ratings))
	for i, r := range ratings {
		ids[i] = r.ID
	}
	observations, err := s.observations.ListByRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRating := make(map[uuid.UUID][]*models.Observation, len(ratings))
	for _, o := range observations {
		byRating[o.RatingID] = append(byRating[o.RatingID], o)
	}
	for _, r := range ratings {
		r.Observations = byRating[r.ID]
		if r.Observations == nil {
			r.Observations = []*models.Observation{}
		}
	}
	return ratings, nil
}
