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

type ratingRepository struct {
	db *DB
}

var _ repositories.RatingRepository = (*ratingRepository)(nil)

func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	state := &r.db.state
	if _, ok := state.assessments[rating.AssessmentID]; !ok {
		return apperrors.ErrNotFound
	}
	if _, ok := state.measures[rating.MeasureID]; !ok {
		return apperrors.ErrNotFound
	}
	if rating.DevelopmentalLevelID != nil {
		if _, ok := state.levels[*rating.DevelopmentalLevelID]; !ok {
			return apperrors.ErrNotFound
		}
	}

	now := r.db.timestamp()
	stored := models.Rating{
		ID:                   uuid.New(),
		AssessmentID:         rating.AssessmentID,
		MeasureID:            rating.MeasureID,
		DevelopmentalLevelID: cloneUUID(rating.DevelopmentalLevelID),
		ObservationNotes:     cloneString(rating.ObservationNotes),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	for _, existing := range state.ratings {
		if existing.AssessmentID == rating.AssessmentID && existing.MeasureID == rating.MeasureID {
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
			break
		}
	}
	state.ratings[stored.ID] = stored

	rating.ID = stored.ID
	rating.CreatedAt = stored.CreatedAt
	rating.UpdatedAt = stored.UpdatedAt
	return nil
}

// joined attaches measure and level. Callers hold the lock.
func (r *ratingRepository) joined(rt models.Rating) *models.Rating {
	out := cloneRating(rt)
	if m, ok := r.db.state.measures[rt.MeasureID]; ok {
		out.Measure = &m
	}
	if rt.DevelopmentalLevelID != nil {
		if l, ok := r.db.state.levels[*rt.DevelopmentalLevelID]; ok {
			out.DevelopmentalLevel = &l
		}
	}
	return out
}

func (r *ratingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rt, ok := r.db.state.ratings[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r.joined(rt), nil
}

func (r *ratingRepository) ListByAssessment(ctx context.Context, assessmentID uuid.UUID) ([]*models.Rating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ratings := make([]*models.Rating, 0)
	for _, rt := range r.db.state.ratings {
		if rt.AssessmentID == assessmentID {
			ratings = append(ratings, r.joined(rt))
		}
	}
	domainOrder := func(rt *models.Rating) int {
		if rt.Measure == nil {
			return 0
		}
		return r.db.state.domains[rt.Measure.DomainID].SortOrder
	}
	slices.SortFunc(ratings, func(a, b *models.Rating) int {
		return cmp.Or(
			cmp.Compare(domainOrder(a), domainOrder(b)),
			compareMeasures(a.Measure, b.Measure),
		)
	})
	return ratings, nil
}

func (r *ratingRepository) DeleteByAssessment(ctx context.Context, assessmentID uuid.UUID) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var deleted int64
	for id, rt := range r.db.state.ratings {
		if rt.AssessmentID != assessmentID {
			continue
		}
		for obsID, obs := range r.db.state.observations {
			if obs.RatingID == id {
				delete(r.db.state.observations, obsID)
			}
		}
		delete(r.db.state.ratings, id)
		deleted++
	}
	return deleted, nil
}
