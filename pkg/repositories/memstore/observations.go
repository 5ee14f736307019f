package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/ekaya-inc/drdp-engine/pkg/apperrors"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
)

type observationRepository struct {
	db *DB
}

var _ repositories.ObservationRepository = (*observationRepository)(nil)

func (r *observationRepository) Create(ctx context.Context, obs *models.Observation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.state.ratings[obs.RatingID]; !ok {
		return apperrors.ErrNotFound
	}

	now := r.db.timestamp()
	obs.ID = uuid.New()
	obs.CreatedAt = now
	obs.UpdatedAt = now
	r.db.state.observations[obs.ID] = *obs
	return nil
}

func (r *observationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Observation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	obs, ok := r.db.state.observations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &obs, nil
}

func (r *observationRepository) ListByRating(ctx context.Context, ratingID uuid.UUID) ([]*models.Observation, error) {
	return r.ListByRatings(ctx, []uuid.UUID{ratingID})
}

func (r *observationRepository) ListByRatings(ctx context.Context, ratingIDs []uuid.UUID) ([]*models.Observation, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	observations := make([]*models.Observation, 0)
	for _, obs := range r.db.state.observations {
		if slices.Contains(ratingIDs, obs.RatingID) {
			observations = append(observations, &obs)
		}
	}
	slices.SortFunc(observations, func(a, b *models.Observation) int {
		return cmp.Or(
			b.ObservationDate.Compare(a.ObservationDate.Time),
			b.CreatedAt.Compare(a.CreatedAt),
		)
	})
	return observations, nil
}

func (r *observationRepository) Update(ctx context.Context, id uuid.UUID, date *models.Date, text *string) (*models.Observation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	obs, ok := r.db.state.observations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if date != nil {
		obs.ObservationDate = *date
	}
	if text != nil {
		obs.ObservationText = *text
	}
	obs.UpdatedAt = r.db.timestamp()
	r.db.state.observations[id] = obs
	return &obs, nil
}

func (r *observationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.state.observations[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.db.state.observations, id)
	return nil
}
