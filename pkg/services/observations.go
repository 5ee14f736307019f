package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
)

// CreateObservationInput is the request body for logging an observation
// against a rating.
type CreateObservationInput struct {
	RatingID        uuid.UUID    `json:"rating_id" validate:"required"`
	ObservationDate *models.Date `json:"observation_date" validate:"required"`
	ObservationText string       `json:"observation_text" validate:"required"`
}

// UpdateObservationInput carries a partial update; at least one field must
// be set.
type UpdateObservationInput struct {
	ObservationDate *models.Date `json:"observation_date,omitempty"`
	ObservationText *string      `json:"observation_text,omitempty"`
}

// ObservationService manages the dated evidence notes attached to ratings.
type ObservationService interface {
	// List returns the rating's observations, newest observation_date first.
	List(ctx context.Context, ratingID uuid.UUID) ([]*models.Observation, error)
	Create(ctx context.Context, input *CreateObservationInput) (*models.Observation, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateObservationInput) (*models.Observation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type observationService struct {
	repo   repositories.ObservationRepository
	logger *zap.Logger
}

// NewObservationService creates a new observation service.
func NewObservationService(repo repositories.ObservationRepository, logger *zap.Logger) ObservationService {
	return &observationService{
		repo:   repo,
		logger: logger.Named("observations"),
	}
}

var _ ObservationService = (*observationService)(nil)

func (s *observationService) List(ctx context.Context, ratingID uuid.UUID) ([]*models.Observation, error) {
	if ratingID == uuid.Nil {
		return nil, apperrors.NewValidationError("rating_id", "is required")
	}
	observations, err := s.repo.ListByRating(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if observations == nil {
		observations = []*models.Observation{}
	}
	return observations, nil
}

func (s *observationService) Create(ctx context.Context, input *CreateObservationInput) (*models.Observation, error) {
	input.ObservationText = strings.TrimSpace(input.ObservationText)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	obs := &models.Observation{
		RatingID:        input.RatingID,
		ObservationDate: *input.ObservationDate,
		ObservationText: input.ObservationText,
	}
	if err := s.repo.Create(ctx, obs); err != nil {
		return nil, err
	}

	s.logger.Debug("Created observation",
		zap.String("observation_id", obs.ID.String()),
		zap.String("rating_id", obs.RatingID.String()))
	return obs, nil
}

func (s *observationService) Update(ctx context.Context, id uuid.UUID, input *UpdateObservationInput) (*models.Observation, error) {
	if input.ObservationDate == nil && input.ObservationText == nil {
		return nil, apperrors.NewValidationError("observation_date", "or observation_text is required")
	}
	if input.ObservationText != nil {
		text := strings.TrimSpace(*input.ObservationText)
		if text == "" {
			return nil, apperrors.NewValidationError("observation_text", "must not be empty")
		}
		input.ObservationText = &text
	}

	return s.repo.Update(ctx, id, input.ObservationDate, input.ObservationText)
}

func (s *observationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
