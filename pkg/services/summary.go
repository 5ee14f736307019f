package services

import (
	"github.com/google/uuid"

	"github.com/ekaya-inc/drdp-engine/pkg/models"
)

// ComputeDomainSummaries reports, per domain and in domain order, how many
// of its measures carry a resolvable level in ratings and the mean sort_order
// of those levels. Ratings for measures outside domains are ignored.
func ComputeDomainSummaries(
	domains []*models.Domain,
	levels []*models.DevelopmentalLevel,
	ratings []*models.Rating,
) []*models.DomainSummary {
	levelOrder := make(map[uuid.UUID]int, len(levels))
	for _, l := range levels {
		levelOrder[l.ID] = l.SortOrder
	}

	// First resolvable rating wins for a measure.
	ratedLevel := make(map[uuid.UUID]int, len(ratings))
	for _, r := range ratings {
		if !r.IsRated() {
			continue
		}
		order, ok := levelOrder[*r.DevelopmentalLevelID]
		if !ok {
			continue
		}
		if _, seen := ratedLevel[r.MeasureID]; !seen {
			ratedLevel[r.MeasureID] = order
		}
	}

	summaries := make([]*models.DomainSummary, 0, len(domains))
	for _, d := range domains {
		summary := &models.DomainSummary{
			DomainID:      d.ID,
			DomainCode:    d.Code,
			DomainName:    d.Name,
			TotalMeasures: len(d.Measures),
		}
		total := 0
		for _, m := range d.Measures {
			if order, ok := ratedLevel[m.ID]; ok {
				summary.RatedMeasures++
				total += order
			}
		}
		if summary.RatedMeasures > 0 {
			summary.AverageLevel = float64(total) / float64(summary.RatedMeasures)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
