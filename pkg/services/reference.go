package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/catalog"
	"github.com/ekaya-inc/drdp-engine/pkg/models"
	"github.com/ekaya-inc/drdp-engine/pkg/repositories"
)

// SeedResult counts the rows upserted by SeedCatalog.
type SeedResult struct {
	Domains  int `json:"domains"`
	Measures int `json:"measures"`
	Levels   int `json:"levels"`
}

// ReferenceService serves the DRDP catalog: domains, their measures and the
// developmental level scale.
type ReferenceService interface {
	// ListDomainsWithMeasures returns domains in sort order, each with its
	// measures in sort order. Measures is empty, never nil, for a domain
	// without measures.
	ListDomainsWithMeasures(ctx context.Context) ([]*models.Domain, error)

	// ListDevelopmentalLevels returns the level scale in sort order.
	ListDevelopmentalLevels(ctx context.Context) ([]*models.DevelopmentalLevel, error)

	// SeedCatalog upserts every domain, measure and level of cat by code.
	// Running it again with the same catalog changes nothing.
	SeedCatalog(ctx context.Context, cat *catalog.Catalog) (*SeedResult, error)
}

type referenceService struct {
	repo   repositories.ReferenceRepository
	logger *zap.Logger
}

// NewReferenceService creates a new reference data service.
func NewReferenceService(repo repositories.ReferenceRepository, logger *zap.Logger) ReferenceService {
	return &referenceService{
		repo:   repo,
		logger: logger.Named("reference"),
	}
}

var _ ReferenceService = (*referenceService)(nil)

func (s *referenceService) ListDomainsWithMeasures(ctx context.Context) ([]*models.Domain, error) {
	domains, err := s.repo.ListDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch domains: %w", err)
	}
	measures, err := s.repo.ListMeasures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch measures: %w", err)
	}

	byDomain := make(map[uuid.UUID][]*models.Measure, len(domains))
	for _, m := range measures {
		byDomain[m.DomainID] = append(byDomain[m.DomainID], m)
	}

	for _, d := range domains {
		d.Measures = byDomain[d.ID]
		if d.Measures == nil {
			d.Measures = []*models.Measure{}
		}
	}
	return domains, nil
}

func (s *referenceService) ListDevelopmentalLevels(ctx context.Context) ([]*models.DevelopmentalLevel, error) {
	levels, err := s.repo.ListDevelopmentalLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch developmental levels: %w", err)
	}
	return levels, nil
}

func (s *referenceService) SeedCatalog(ctx context.Context, cat *catalog.Catalog) (*SeedResult, error) {
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	result := &SeedResult{}
	for _, d := range cat.Domains {
		domain := &models.Domain{Code: d.Code, Name: d.Name, SortOrder: d.SortOrder}
		if err := s.repo.UpsertDomain(ctx, domain); err != nil {
			return nil, fmt.Errorf("failed to seed domain %s: %w", d.Code, err)
		}
		result.Domains++

		for _, m := range d.Measures {
			measure := &models.Measure{
				DomainID:  domain.ID,
				Code:      m.Code,
				Name:      m.Name,
				SortOrder: m.SortOrder,
			}
			if err := s.repo.UpsertMeasure(ctx, measure); err != nil {
				return nil, fmt.Errorf("failed to seed measure %s: %w", m.Code, err)
			}
			result.Measures++
		}
	}

	for _, l := range cat.Levels {
		level := &models.DevelopmentalLevel{Code: l.Code, Name: l.Name, SortOrder: l.SortOrder}
		if err := s.repo.UpsertDevelopmentalLevel(ctx, level); err != nil {
			return nil, fmt.Errorf("failed to seed level %s: %w", l.Code, err)
		}
		result.Levels++
	}

	s.logger.Debug("Upserted catalog rows",
		zap.Int("domains", result.Domains),
		zap.Int("measures", result.Measures),
		zap.Int("levels", result.Levels))
	return result, nil
}
