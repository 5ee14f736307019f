package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/drdp-engine/pkg/models"
)

// RatingRepository provides data access for per-measure ratings.
type RatingRepository interface {
	// Upsert inserts the rating or, when one already exists for the same
	// (assessment, measure), updates its level and notes in place. The
	// stored ID and timestamps are written back into rating.
	Upsert(ctx context.Context, rating *models.Rating) error
	// GetByID returns the rating joined with its measure and level.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Rating, error)
	// ListByAssessment returns the assessment's ratings joined with measure
	// and level, in catalog order.
	ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*models.Rating, error)
	// DeleteByAssessment removes the assessment's ratings and their
	// observations, returning the number of ratings removed.
	DeleteByAssessment(ctx context.Context, assessmentID uuid.UUID) (int64, error)
}

type ratingRepository struct{}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository() RatingRepository {
	return &ratingRepository{}
}

var _ RatingRepository = (*ratingRepository)(nil)

const ratingSelect = `
		SELECT r.id, r.assessment_id, r.measure_id, r.developmental_level_id, r.observation_notes,
		       r.created_at, r.updated_at,
		       m.id, m.domain_id, m.code, m.name, m.sort_order, m.created_at,
		       l.id, l.code, l.name, l.sort_order, l.created_at
		FROM ratings r
		JOIN measures m ON m.id = r.measure_id
		JOIN domains d ON d.id = m.domain_id
		LEFT JOIN developmental_levels l ON l.id = r.developmental_level_id`

func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	err = scope.Conn.QueryRow(ctx, `
		INSERT INTO ratings (
			assessment_id, measure_id, developmental_level_id, observation_notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (assessment_id, measure_id) DO UPDATE
		SET developmental_level_id = EXCLUDED.developmental_level_id,
		    observation_notes = EXCLUDED.observation_notes,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`,
		rating.AssessmentID,
		rating.MeasureID,
		rating.DevelopmentalLevelID,
		rating.ObservationNotes,
		now,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
	return mapError(err, "upsert rating")
}

func (r *ratingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	rating, err := scanRating(scope.Conn.QueryRow(ctx, ratingSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get rating")
	}
	return rating, nil
}

func (r *ratingRepository) ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*models.Rating, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := scope.Conn.Query(ctx,
		ratingSelect+` WHERE r.assessment_id = $1 ORDER BY d.sort_order, m.sort_order, m.code`,
		assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]*models.Rating, 0)
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return ratings, nil
}

func (r *ratingRepository) DeleteByAssessment(ctx context.Context, assessmentID uuid.UUID) (int64, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return 0, err
	}

	// Observations go with their ratings via ON DELETE CASCADE.
	result, err := scope.Conn.Exec(ctx, `DELETE FROM ratings WHERE assessment_id = $1`, assessmentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ratings: %w", err)
	}
	return result.RowsAffected(), nil
}

func scanRating(row pgx.Row) (*models.Rating, error) {
	var rt models.Rating
	var m models.Measure
	var levelID *uuid.UUID
	var levelCode, levelName *string
	var levelOrder *int
	var levelCreated *time.Time

	err := row.Scan(
		&rt.ID,
		&rt.AssessmentID,
		&rt.MeasureID,
		&rt.DevelopmentalLevelID,
		&rt.ObservationNotes,
		&rt.CreatedAt,
		&rt.UpdatedAt,
		&m.ID,
		&m.DomainID,
		&m.Code,
		&m.Name,
		&m.SortOrder,
		&m.CreatedAt,
		&levelID,
		&levelCode,
		&levelName,
		&levelOrder,
		&levelCreated,
	)
	if err != nil {
		return nil, err
	}

	rt.Measure = &m
	if levelID != nil {
		rt.DevelopmentalLevel = &models.DevelopmentalLevel{
			ID:        *levelID,
			Code:      *levelCode,
			Name:      *levelName,
			SortOrder: *levelOrder,
			CreatedAt: *levelCreated,
		}
	}
	return &rt, nil
}
