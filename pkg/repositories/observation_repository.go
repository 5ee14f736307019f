package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
)

// ObservationRepository provides data access for observations.
// Lists are ordered by observation_date, newest first.
type ObservationRepository interface {
	// Create inserts the observation. A missing rating yields ErrNotFound.
	Create(ctx context.Context, obs *models.Observation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Observation, error)
	ListByRating(ctx context.Context, ratingID uuid.UUID) ([]*models.Observation, error)
	ListByRatings(ctx context.Context, ratingIDs []uuid.UUID) ([]*models.Observation, error)
	// Update applies whichever of date and text is non-nil and stamps updated_at.
	Update(ctx context.Context, id uuid.UUID, date *models.Date, text *string) (*models.Observation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type observationRepository struct{}

// NewObservationRepository creates a new ObservationRepository.
func NewObservationRepository() ObservationRepository {
	return &observationRepository{}
}

var _ ObservationRepository = (*observationRepository)(nil)

const observationColumns = `id, rating_id, observation_date, observation_text, created_at, updated_at`

func (r *observationRepository) Create(ctx context.Context, obs *models.Observation) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	err = scope.Conn.QueryRow(ctx, `
		INSERT INTO observations (rating_id, observation_date, observation_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at`,
		obs.RatingID,
		obs.ObservationDate,
		obs.ObservationText,
		now,
	).Scan(&obs.ID, &obs.CreatedAt, &obs.UpdatedAt)
	return mapError(err, "create observation")
}

func (r *observationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Observation, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	obs, err := scanObservation(scope.Conn.QueryRow(ctx,
		`SELECT `+observationColumns+` FROM observations WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "get observation")
	}
	return obs, nil
}

func (r *observationRepository) ListByRating(ctx context.Context, ratingID uuid.UUID) ([]*models.Observation, error) {
	return r.ListByRatings(ctx, []uuid.UUID{ratingID})
}

func (r *observationRepository) ListByRatings(ctx context.Context, ratingIDs []uuid.UUID) ([]*models.Observation, error) {
	observations := make([]*models.Observation, 0)
	if len(ratingIDs) == 0 {
		return observations, nil
	}

	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT `+observationColumns+`
		FROM observations
		WHERE rating_id = ANY($1)
		ORDER BY observation_date DESC, created_at DESC`, ratingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}
	return observations, nil
}

func (r *observationRepository) Update(ctx context.Context, id uuid.UUID, date *models.Date, text *string) (*models.Observation, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	sets := []string{"updated_at = $1"}
	args := []any{time.Now(), id}
	if date != nil {
		args = append(args, *date)
		sets = append(sets, fmt.Sprintf("observation_date = $%d", len(args)))
	}
	if text != nil {
		args = append(args, *text)
		sets = append(sets, fmt.Sprintf("observation_text = $%d", len(args)))
	}

	obs, err := scanObservation(scope.Conn.QueryRow(ctx, `
		UPDATE observations
		SET `+strings.Join(sets, ", ")+`
		WHERE id = $2
		RETURNING `+observationColumns, args...))
	if err != nil {
		return nil, mapError(err, "update observation")
	}
	return obs, nil
}

func (r *observationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	result, err := scope.Conn.Exec(ctx, `DELETE FROM observations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete observation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanObservation(row pgx.Row) (*models.Observation, error) {
	var o models.Observation
	err := row.Scan(
		&o.ID,
		&o.RatingID,
		&o.ObservationDate,
		&o.ObservationText,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
