package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ekaya-inc/drdp-engine/pkg/models"
)

// ReferenceRepository provides access to the shared reference catalog:
// domains, measures and the developmental level scale.
type ReferenceRepository interface {
	ListDomains(ctx context.Context) ([]*models.Domain, error)
	ListMeasures(ctx context.Context) ([]*models.Measure, error)
	ListDevelopmentalLevels(ctx context.Context) ([]*models.DevelopmentalLevel, error)

	// Upserts are keyed by code and fill in the stored ID.
	UpsertDomain(ctx context.Context, domain *models.Domain) error
	UpsertMeasure(ctx context.Context, measure *models.Measure) error
	UpsertDevelopmentalLevel(ctx context.Context, level *models.DevelopmentalLevel) error
}

type referenceRepository struct{}

// NewReferenceRepository creates a new ReferenceRepository.
func NewReferenceRepository() ReferenceRepository {
	return &referenceRepository{}
}

var _ ReferenceRepository = (*referenceRepository)(nil)

func (r *referenceRepository) ListDomains(ctx context.Context) ([]*models.Domain, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT id, code, name, sort_order, created_at
		FROM domains
		ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}

	domains, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Domain, error) {
		var d models.Domain
		err := row.Scan(&d.ID, &d.Code, &d.Name, &d.SortOrder, &d.CreatedAt)
		return &d, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan domains: %w", err)
	}
	return domains, nil
}

func (r *referenceRepository) ListMeasures(ctx context.Context) ([]*models.Measure, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT id, domain_id, code, name, sort_order, created_at
		FROM measures
		ORDER BY sort_order, code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query measures: %w", err)
	}

	measures, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Measure, error) {
		var m models.Measure
		err := row.Scan(&m.ID, &m.DomainID, &m.Code, &m.Name, &m.SortOrder, &m.CreatedAt)
		return &m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan measures: %w", err)
	}
	return measures, nil
}

func (r *referenceRepository) ListDevelopmentalLevels(ctx context.Context) ([]*models.DevelopmentalLevel, error) {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT id, code, name, sort_order, created_at
		FROM developmental_levels
		ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("failed to query developmental levels: %w", err)
	}

	levels, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.DevelopmentalLevel, error) {
		var l models.DevelopmentalLevel
		err := row.Scan(&l.ID, &l.Code, &l.Name, &l.SortOrder, &l.CreatedAt)
		return &l, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan developmental levels: %w", err)
	}
	return levels, nil
}

func (r *referenceRepository) UpsertDomain(ctx context.Context, domain *models.Domain) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	err = scope.Conn.QueryRow(ctx, `
		INSERT INTO domains (code, name, sort_order)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, sort_order = EXCLUDED.sort_order
		RETURNING id, created_at`,
		domain.Code, domain.Name, domain.SortOrder,
	).Scan(&domain.ID, &domain.CreatedAt)
	return mapError(err, "upsert domain")
}

func (r *referenceRepository) UpsertMeasure(ctx context.Context, measure *models.Measure) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	err = scope.Conn.QueryRow(ctx, `
		INSERT INTO measures (domain_id, code, name, sort_order)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE
		SET domain_id = EXCLUDED.domain_id, name = EXCLUDED.name, sort_order = EXCLUDED.sort_order
		RETURNING id, created_at`,
		measure.DomainID, measure.Code, measure.Name, measure.SortOrder,
	).Scan(&measure.ID, &measure.CreatedAt)
	return mapError(err, "upsert measure")
}

func (r *referenceRepository) UpsertDevelopmentalLevel(ctx context.Context, level *models.DevelopmentalLevel) error {
	scope, err := scopeFrom(ctx)
	if err != nil {
		return err
	}

	err = scope.Conn.QueryRow(ctx, `
		INSERT INTO developmental_levels (code, name, sort_order)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, sort_order = EXCLUDED.sort_order
		RETURNING id, created_at`,
		level.Code, level.Name, level.SortOrder,
	).Scan(&level.ID, &level.CreatedAt)
	return mapError(err, "upsert developmental level")
}
