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

type referenceRepository struct {
	db *DB
}

var _ repositories.ReferenceRepository = (*referenceRepository)(nil)

func (r *referenceRepository) ListDomains(ctx context.Context) ([]*models.Domain, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	domains := make([]*models.Domain, 0, len(r.db.state.domains))
	for _, d := range r.db.state.domains {
		d.Measures = nil
		domains = append(domains, &d)
	}
	slices.SortFunc(domains, func(a, b *models.Domain) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Name, b.Name))
	})
	return domains, nil
}

func (r *referenceRepository) ListMeasures(ctx context.Context) ([]*models.Measure, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	measures := make([]*models.Measure, 0, len(r.db.state.measures))
	for _, m := range r.db.state.measures {
		measures = append(measures, &m)
	}
	slices.SortFunc(measures, compareMeasures)
	return measures, nil
}

func compareMeasures(a, b *models.Measure) int {
	return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Code, b.Code))
}

func (r *referenceRepository) ListDevelopmentalLevels(ctx context.Context) ([]*models.DevelopmentalLevel, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	levels := make([]*models.DevelopmentalLevel, 0, len(r.db.state.levels))
	for _, l := range r.db.state.levels {
		levels = append(levels, &l)
	}
	slices.SortFunc(levels, func(a, b *models.DevelopmentalLevel) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return levels, nil
}

func (r *referenceRepository) UpsertDomain(ctx context.Context, domain *models.Domain) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := models.Domain{
		ID:        uuid.New(),
		Code:      domain.Code,
		Name:      domain.Name,
		SortOrder: domain.SortOrder,
		CreatedAt: r.db.timestamp(),
	}
	for _, existing := range r.db.state.domains {
		if existing.Code == domain.Code {
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
			break
		}
	}
	r.db.state.domains[stored.ID] = stored

	domain.ID = stored.ID
	domain.CreatedAt = stored.CreatedAt
	return nil
}

func (r *referenceRepository) UpsertMeasure(ctx context.Context, measure *models.Measure) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.state.domains[measure.DomainID]; !ok {
		return apperrors.ErrNotFound
	}

	stored := models.Measure{
		ID:        uuid.New(),
		DomainID:  measure.DomainID,
		Code:      measure.Code,
		Name:      measure.Name,
		SortOrder: measure.SortOrder,
		CreatedAt: r.db.timestamp(),
	}
	for _, existing := range r.db.state.measures {
		if existing.Code == measure.Code {
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
			break
		}
	}
	r.db.state.measures[stored.ID] = stored

	measure.ID = stored.ID
	measure.CreatedAt = stored.CreatedAt
	return nil
}

func (r *referenceRepository) UpsertDevelopmentalLevel(ctx context.Context, level *models.DevelopmentalLevel) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := models.DevelopmentalLevel{
		ID:        uuid.New(),
		Code:      level.Code,
		Name:      level.Name,
		SortOrder: level.SortOrder,
		CreatedAt: r.db.timestamp(),
	}
	for _, existing := range r.db.state.levels {
		if existing.Code == level.Code {
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
			break
		}
	}
	r.db.state.levels[stored.ID] = stored

	level.ID = stored.ID
	level.CreatedAt = stored.CreatedAt
	return nil
}
